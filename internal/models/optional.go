package models

import "encoding/json"

// Optional различает отсутствующее в JSON поле, явный null и значение.
//
// Set выставляется при любом упоминании поля в теле запроса, включая null;
// Null выставляется только для явного null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// UnmarshalJSON вызывается encoding/json и для литерала null.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// Ptr возвращает указатель на значение или nil для отсутствующего/null поля.
func (o Optional[T]) Ptr() *T {
	if !o.Set || o.Null {
		return nil
	}
	v := o.Value
	return &v
}

// LooseString принимает любое JSON-значение и не ломает декодирование тела.
// Valid выставляется только для JSON-строки.
type LooseString struct {
	Value string
	Valid bool
}

func (l *LooseString) UnmarshalJSON(data []byte) error {
	*l = LooseString{}
	if len(data) == 0 || data[0] != '"' {
		return nil
	}
	if err := json.Unmarshal(data, &l.Value); err != nil {
		return nil
	}
	l.Valid = true
	return nil
}

// CreateTaskInput тело запроса POST /tasks.
type CreateTaskInput struct {
	Title       *string     `json:"title" validate:"required"`
	Description *string     `json:"description,omitempty"`
	Status      LooseString `json:"status" swaggertype:"string"`
}

// UpdateTaskInput тело запроса PUT /tasks/{id}.
type UpdateTaskInput struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	Status      Optional[string] `json:"status"`
}
