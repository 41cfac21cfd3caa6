package model

import (
	"github.com/anoideaopen/litbridge/core/codec"
	"github.com/anoideaopen/litbridge/core/routing"
	"github.com/anoideaopen/litbridge/core/routing/function"
	"github.com/anoideaopen/litbridge/core/routing/property"
)

// NewDefaultHandlers returns the property and function handlers with no descriptor rules.
// A nil codecs means codec.Defaults.
func NewDefaultHandlers(codecs *codec.Table) *routing.Handlers {
	if codecs == nil {
		codecs = codec.Defaults()
	}

	return routing.MustNewHandlers(
		property.New(codecs, nil, nil),
		function.New(nil, nil),
	)
}

// NewDispatcher returns a dispatcher over the default handlers.
func NewDispatcher(codecs *codec.Table, opts ...routing.Option) *routing.Dispatcher {
	return routing.NewDispatcher(NewDefaultHandlers(codecs), opts...)
}
