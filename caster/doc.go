// Package caster transforms object graphs between data models.
//
// A Service is built once from a list of transformers, each mapping one
// source type to one target type and optionally back. Dispatch looks up the
// transformer for a (source, target) pair, walking the ancestors of the
// source type when the exact pair is not registered, and runs it with a
// Context: the ambient values of the current call tree and the way back
// into the service for nested values.
//
//	svc, err := caster.New([]caster.Transformer{
//		caster.Convert[*store.OrderItem, *warehouse.OrderItem](caster.ConverterFunc[*store.OrderItem, *warehouse.OrderItem](itemToAPI)),
//		caster.Func(orderToAPI),
//	})
//
//	order, err := caster.Process[*warehouse.Order](svc, row)
//
// Besides single values the package converts slices, sets and maps, and
// aligns a source slice onto an existing target slice, updating matched
// elements in place instead of replacing them.
package caster
