// Package rest implements the HTTP request pipeline shared by every Anchor
// namespace: URL and header construction, JSON body handling, per-attempt
// timeouts, retry with exponential backoff, and classification of error
// responses into a closed set of error kinds.
package rest
