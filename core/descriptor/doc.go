// Package descriptor defines the metadata attached to contract methods.
//
// A descriptor tells the dispatcher which remote operation a contract method maps to.
// Two kinds are understood by the built-in handlers:
//
//   - Property maps an accessor to a remote property of the element.
//   - Function maps a method to a remote function of the element.
//
// Any other kind is represented by Marker. Markers are never dispatched on their own,
// but they take part in the co-occurrence rules of the handlers (required and mutually
// exclusive descriptor kinds).
//
// Descriptors are attached either explicitly, through routing.NewMethod and its helpers,
// or with a struct tag on a func-typed contract field:
//
//	type BearPokerModel struct {
//	    GetText   func() (string, error)   `lit:"property,name=text,default=,raw"`
//	    SetText   func(text string) error  `lit:"property,name=text,default=,raw"`
//	    PokeCount func() (int, error)      `lit:"property,name=pokeCount,default=0"`
//	    PokeIt    func() error             `lit:"function,name=pokeIt"`
//	}
//
// Several descriptors may be listed in one tag, separated by a semicolon.
package descriptor
