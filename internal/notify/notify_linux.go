package notify

import "github.com/godbus/dbus/v5"

// notificationExpireMs is how long a notification stays on screen.
const notificationExpireMs = 3000

func platformNotify(title, body string) error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return err
	}

	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	call := obj.Call("org.freedesktop.Notifications.Notify", 0,
		"voxtyped",            // app_name
		uint32(0),             // replaces_id
		"audio-input-microphone", // app_icon
		title,
		body,
		[]string{},               // actions
		map[string]dbus.Variant{}, // hints
		int32(notificationExpireMs),
	)
	return call.Err
}
