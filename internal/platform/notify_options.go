// Package platform delivers desktop notifications through the host's
// notification service.
package platform

// AppName identifies the sender to the notification service.
const AppName = "Image Selector"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath points to an image shown with the notification, when the
	// platform supports it.
	IconPath string
	// Timeout is the display time in milliseconds. Zero uses DefaultTimeout.
	Timeout int32
}

// DefaultTimeout is used when Options.Timeout is zero.
const DefaultTimeout int32 = 5000

func (o Options) timeout() int32 {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}
