/*
Package resilience provides the circuit breaker used by the bridge client.

The breaker has three states:

	Closed --[ReadyToTrip]-> Open --[Timeout]-> Half-Open --[MaxRequests successes]-> Closed
	                                               |
	                                           [failure] -> Open

Settings.IsSuccessful decides which errors count as failures. The bridge
client treats command errors (the bridge answered, the OS call failed) as
successes and only transport errors as failures.

	breaker := resilience.New("bridge", resilience.Settings{
		Timeout: 10 * time.Second,
		IsSuccessful: func(err error) bool {
			var cmdErr *client.CommandError
			return err == nil || errors.As(err, &cmdErr)
		},
	})
	err := breaker.Execute(func() error { return call() })
*/
package resilience
