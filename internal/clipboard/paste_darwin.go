package clipboard

import "github.com/micmonay/keybd_event"

// sendPaste synthesizes Cmd+V.
func sendPaste() error {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return err
	}
	kb.SetKeys(keybd_event.VK_V)
	kb.HasSuper(true)
	return kb.Launching()
}
