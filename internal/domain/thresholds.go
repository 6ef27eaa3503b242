package domain

// ZoomLevels is the number of discrete map zoom levels (0-20).
const ZoomLevels = 21

// DefaultStreamOrderClipValues lowers the clip threshold by one stream order
// every three zoom levels.
var DefaultStreamOrderClipValues = [ZoomLevels]int{
	7, 7, 7, 6, 6, 6, 5, 5, 5, 4, 4, 4, 3, 3, 3, 2, 2, 2, 1, 1, 1,
}

// ThresholdTable holds one clip threshold per zoom level. The zero value is
// not useful; use NewThresholdTable. A ThresholdTable is not safe for
// concurrent use.
type ThresholdTable struct {
	slots [ZoomLevels]int
	lock  bool
}

// NewThresholdTable returns a table seeded with values and lock mode.
func NewThresholdTable(values [ZoomLevels]int, lock bool) (*ThresholdTable, error) {
	for _, v := range values {
		if err := ValidateThreshold(v); err != nil {
			return nil, err
		}
	}
	return &ThresholdTable{slots: values, lock: lock}, nil
}

// ValidateThreshold checks that v is a stream order in [1,7].
func ValidateThreshold(v int) error {
	if v < MinStreamOrder || v > MaxStreamOrder {
		return ErrThresholdOutOfRange
	}
	return nil
}

// ValidateLevel checks that level is a zoom level in [0,20].
func ValidateLevel(level int) error {
	if level < 0 || level >= ZoomLevels {
		return ErrLevelOutOfRange
	}
	return nil
}

// Locked reports whether lock propagation is enabled.
func (t *ThresholdTable) Locked() bool { return t.lock }

// SetLock enables or disables lock propagation. Existing values are not
// rewritten when the lock is turned on.
func (t *ThresholdTable) SetLock(lock bool) { t.lock = lock }

// Get returns the threshold for a zoom level.
func (t *ThresholdTable) Get(level int) (int, error) {
	if err := ValidateLevel(level); err != nil {
		return 0, err
	}
	return t.slots[level], nil
}

// Values returns a copy of every slot, indexed by zoom level.
func (t *ThresholdTable) Values() [ZoomLevels]int { return t.slots }

// Set stores value at level. With lock enabled, lower zoom levels are raised
// to at least value and higher zoom levels are lowered to at most value.
func (t *ThresholdTable) Set(level, value int) error {
	if err := ValidateLevel(level); err != nil {
		return err
	}
	if err := ValidateThreshold(value); err != nil {
		return err
	}

	if !t.lock {
		t.slots[level] = value
		return nil
	}

	for i := range t.slots {
		switch {
		case i < level:
			if t.slots[i] < value {
				t.slots[i] = value
			}
		case i > level:
			if t.slots[i] > value {
				t.slots[i] = value
			}
		default:
			t.slots[i] = value
		}
	}
	return nil
}
