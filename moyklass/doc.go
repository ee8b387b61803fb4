// Package moyklass provides a client for the Moyklass CRM API.
//
// A Client owns the API key and the current session token and funnels every
// call through Execute, which attaches the x-access-token header, sends the
// request and classifies failures as *APIError. Resource methods are grouped
// into facades hanging off the client: Users, Payments, Lessons,
// Subscriptions, Tasks and Groups.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := moyklass.NewClient("your-api-key", logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	err = client.WithToken(ctx, func(ctx context.Context) error {
//		resp, err := client.Payments.List(ctx, &moyklass.PaymentListParams{
//			Optype: moyklass.PaymentOptypes{moyklass.PaymentOptypeIncome},
//		})
//		if err != nil {
//			return err
//		}
//		fmt.Println(resp.Get("stats.totalItems").Int())
//		return nil
//	})
//
// # Parameters
//
// Parameter structs map Go fields onto the API's camelCase keys. Pointer and
// slice fields are optional and left out when nil or empty. Plain bool flags
// are always sent, as "true"/"false" in query strings and as JSON booleans in
// bodies. Enum fields are sent only when they hold a known value; anything
// else is dropped without an error.
//
// # Error Handling
//
// Every failed call returns *APIError. Its Kind tells redirect loops, HTTP
// status errors, timeouts, connection failures and other transport errors
// apart:
//
//	var apiErr *moyklass.APIError
//	if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
//		// Handle auth failure
//	}
//
// A successful response whose body is not JSON is not an error: the raw text
// is available from Response.Text and Response.IsJSON reports false.
package moyklass
