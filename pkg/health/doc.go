/*
Package health polls the readiness of the MetadataOrchestrator's
auto-started content-extractor REST service before any extraction request
is attempted against it.

	checker := health.NewHTTPChecker("http://localhost:9998/tika").
		WithTimeout(2 * time.Second)

	if err := checker.WaitReady(ctx, 500*time.Millisecond, 30*time.Second); err != nil {
		// service never came up
	}

Only HTTP probing is provided: the pipeline's sole long-lived external
service speaks REST, so there is nothing to probe over bare TCP or by
exec'ing into a process.
*/
package health
