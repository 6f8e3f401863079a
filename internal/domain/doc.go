// Package domain contains the core business entities, value objects, and
// domain logic of the task manager. It defines the canonical Task shape,
// its enumerated focus and status values, and the validation rules every
// task must satisfy, independent of the document store or HTTP layer.
package domain
