// Package link provides the wireless control endpoint of the avatar device: a
// connection-oriented BLE peripheral with one service and two characteristics.
//
// The package covers:
//   - The expression characteristic (read/write, one byte) backed by an
//     edge-triggered, exactly-once ExpressionCell
//   - The distance characteristic (read/notify, u16 little endian millimeters)
//   - Connection status tracking from the radio's connect/disconnect events
//   - Advertising start/stop bound to a cancellable context
//
// Radio callbacks run in the radio's own goroutines. They only touch atomic
// values owned by the Endpoint and never call rendering or sensor code.
package link
