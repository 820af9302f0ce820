// Package github implements hosting.ContentStore and hosting.GitData on the
// GitHub REST API (cloud or enterprise). Configure with a Config containing
// an access token. Set EnterpriseHost for GitHub Enterprise installations.
package github
