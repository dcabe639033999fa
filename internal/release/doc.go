// Package release implements the plugin release flow: compute the next
// semantic version, run the test suite, rewrite the manifest version and
// record the change on a release branch.
package release
