package object

type Bool struct {
	value bool
}

func (b *Bool) Type() Type {
	return BOOL
}

func (b *Bool) Value() bool {
	return b.value
}

func (b *Bool) Inspect() string {
	if b.value {
		return "true"
	}
	return "false"
}

func (b *Bool) String() string {
	return b.Inspect()
}

func (b *Bool) Interface() interface{} {
	return b.value
}

func (b *Bool) Equals(other Object) (bool, error) {
	if err := checkComparable(other); err != nil {
		return false, err
	}
	o, ok := other.(*Bool)
	return ok && o.value == b.value, nil
}

func (b *Bool) Len() (int, error) {
	return 0, lenError(b)
}

func (b *Bool) Hash() (uint64, error) {
	h := hashTag(BOOL)
	if b.value {
		h = ^h
	}
	return h, nil
}

func (b *Bool) sealed() {}
