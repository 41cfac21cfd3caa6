// Package routing dispatches calls on contract instances to descriptor handlers.
//
// Every contract method is described by a Method: its name, its descriptors and its shape
// (parameter types and return type). A Dispatcher receives each call on a contract instance,
// selects the Handler registered for the method's descriptor kind and runs it.
//
// Handler implementations include:
//   - [github.com/anoideaopen/litbridge/core/routing/property]: reads and writes remote
//     properties through the codec table.
//   - [github.com/anoideaopen/litbridge/core/routing/function]: invokes remote functions.
//
// Each handler embeds Rules, which validate the descriptors attached to a method before the
// handler touches the remote element: the other descriptor kinds must equal the required set
// exactly and must not intersect the mutually exclusive set.
//
// # Example
//
// A hand-written contract calls the dispatcher with static Method values:
//
//	var getText = routing.Getter[string]("GetText", descriptor.Property{Name: "text", Raw: true})
//
//	func (m *bearPokerModel) GetText(ctx context.Context) (string, error) {
//	    v, err := m.dispatcher.Dispatch(ctx, m.instance, getText)
//	    if err != nil {
//	        return "", err
//	    }
//	    return v.(string), nil
//	}
//
// Struct-tag contracts are bound by [github.com/anoideaopen/litbridge/core/model] instead.
package routing
