// Package apiclient provides a generic request pipeline for API clients.
//
// A caller describes one endpoint call with a Descriptor and hands it to a
// Pipeline, which executes it through a transport.Adapter and returns either
// the decoded value or exactly one classified *apierr.Error.
//
// # Pipeline stages
//
//  1. Log the outgoing request (LogRequest).
//  2. Execute one network exchange through the adapter.
//  3. Transport failure: classify the low-level cause. Known connectivity
//     causes become a transport error with the normalized message
//     "Unable to connect to the server"; other causes are kept as is.
//  4. No status code: unknown error.
//  5. Status in [200, 300): log status (LogResponseStatus) and a body
//     preview (LogResponseBody), then decode.
//  6. Any other status: response status error whose message comes from the
//     ClassifyFunc. The body is never decoded.
//  7. Decode with the descriptor's key strategy. Failure yields a response
//     decode error; success is logged (LogResponseDecode).
//
// Logging, tracing and recording are observational and never change the
// returned value.
//
// # Usage
//
//	adapter := transport.NewHTTP(transport.WithTimeout(30 * time.Second))
//	p := apiclient.New(adapter,
//	    apiclient.WithLogger(logger),
//	    apiclient.WithClassifier(apiclient.MessageField("message")),
//	)
//
//	d, err := apiclient.NewDescriptor(apiclient.MethodGet,
//	    "https://api.github.com/search/repositories",
//	    apiclient.WithParameters(params),
//	)
//	out, err := apiclient.Request[SearchResult](ctx, p, d)
//	if errors.Is(err, apierr.ErrResponseStatus) {
//	    // apierr.StatusCode(err), err.Error()
//	}
package apiclient
