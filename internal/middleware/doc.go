// Package middleware provides HTTP middleware for the course player.
//
// It includes:
//   - Request logging in W3C Extended Log Format, with the Range header
//     recorded so seeks show up in the access log
//   - Prometheus request metrics, timing media streams to first byte
//   - gzip compression for JSON and front-end assets
//
// Media responses under /media/ are never compressed: they are already
// compressed video and must keep exact byte ranges. The conversion status
// poll is only logged when it fails.
package middleware
