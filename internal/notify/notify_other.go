//go:build !linux

package notify

import "errors"

func platformNotify(title, body string) error {
	return errors.New("desktop notifications not supported on this platform")
}
