package domain

import "encoding/json"

// Optional is a three-state JSON field: absent, explicit null, or a
// value. Partial updates need the distinction so that `"brand": null`
// clears a field while omitting the key leaves it untouched.
// encoding/json only invokes UnmarshalJSON for keys present in the
// payload, which is what makes Set reliable.
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// Ptr returns the value as a pointer, nil for null. Only meaningful
// when Set is true.
func (o Optional[T]) Ptr() *T {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}
