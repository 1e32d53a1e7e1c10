// Package poll runs periodic fetch-extract-publish loops against the device
// and provides the cancellable task handle that owns them.
package poll
