// Package refetch provides a cancellable, single-flight polling
// controller: it invokes a fetch function on a fixed interval and exposes
// the latest value, a loading flag, and the last error to observers.
//
// refetch is designed as an SDK-first library for the client side of a
// periodically refreshed view. A [Controller] owns one in-flight request
// slot and one repeating timer; issuing a new request, from the timer or
// from [Controller.Refetch], cancels the previous one, and a superseded
// request's resolution never overwrites a newer result.
//
// # Quick Start
//
// Create a controller around any fetch function and start it:
//
//	type Todo struct {
//	    ID    int    `json:"id"`
//	    Title string `json:"title"`
//	}
//
//	req, _ := refetch.NewRequest("https://jsonplaceholder.typicode.com/todos/1")
//	c, err := refetch.New(refetch.JSONFetchFunc[Todo](req),
//	    refetch.WithInterval[Todo](5*time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	c.Start(ctx)
//	defer c.Stop()
//
//	if todo, ok := c.Snapshot().Value(); ok {
//	    fmt.Println(todo.Title)
//	}
//
// # Observing State
//
// Observable state is a [Snapshot]: Data (nil until a request succeeds),
// Loading, and Err. Consumers can poll [Controller.Snapshot], range over
// the channel from [Controller.Updates], or register callbacks with
// [WithOnUpdate]. The controller only mutates its own state; it assumes
// nothing about how consumers re-render.
//
// # Fetch Functions
//
// Any `func(ctx context.Context) (T, error)` works as a fetch function.
// Cancellation is cooperative: the controller cancels the context of a
// superseded or stopped request, and the fetch function is expected to
// abort and return an error wrapping [context.Canceled], which is
// swallowed rather than surfaced as Err. [JSONFetchFunc] and
// [BytesFetchFunc] build conforming HTTP fetchers from a [Request].
//
// # Architecture
//
// The library consists of this package plus internal packages:
//
//   - internal/state: observable state container with pub/sub
//   - internal/fetch: pooled HTTP client behind the built-in fetch functions
//
// The internal packages are not part of the public API and may change
// without notice. A standalone binary driven by YAML configuration lives
// under cmd/refetch, with parsing in the config package.
package refetch
