// Package artifactory is the HTTP client for an Artifactory-compatible
// artifact store. Each operation is a single request with basic auth,
// judged by one status policy: a status code >= 400 is a failure and
// anything below, 3xx included, is a success. Nothing is retried.
package artifactory
