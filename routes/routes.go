// Package routes đăng ký toàn bộ HTTP routes của service.
//
// Cấu trúc:
//   - api.go: API routes (/v1/*), health và /metrics
//   - web.go: trang gốc và /docs
package routes
