/*
Package workintelsdk is a Go client for the Work Intel JSON API.

A Client behaves like one browser: Signup or Login stores the
work_intel_session cookie in its jar and every later call rides on it.

	c := workintelsdk.NewClient("http://localhost:8080")
	if _, err := c.Login(ctx, "ann@example.com", "hunter22"); err != nil {
		return err
	}
	brief, err := c.GetBrief(ctx, false)

Errors returned by the server decode to *APIError and can be matched with
errors.Is against the predefined values:

	if errors.Is(err, workintelsdk.ErrForbidden) { ... }

OAuth flows need a real browser; ConnectURL only returns the redirect the
server answered with.
*/
package workintelsdk
