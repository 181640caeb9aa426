package object

type NilType struct{}

func (n *NilType) Type() Type {
	return NIL
}

func (n *NilType) Inspect() string {
	return "nil"
}

func (n *NilType) String() string {
	return "nil"
}

func (n *NilType) Interface() interface{} {
	return nil
}

func (n *NilType) Equals(other Object) (bool, error) {
	if err := checkComparable(other); err != nil {
		return false, err
	}
	_, ok := other.(*NilType)
	return ok, nil
}

func (n *NilType) Len() (int, error) {
	return 0, lenError(n)
}

func (n *NilType) Hash() (uint64, error) {
	return hashTag(NIL), nil
}

func (n *NilType) sealed() {}
