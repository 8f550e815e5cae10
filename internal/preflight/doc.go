// Package preflight provides readiness checks for the external services
// and filesystem paths that Cadenza depends on.
//
// These checks run in two contexts:
//   - The batch command calls RunAll before generating, so a missing API key
//     or unreachable endpoint fails fast instead of failing every item.
//   - The CLI "cadenza status" command uses the same checks to display
//     service health.
package preflight
