package wl

import (
	"os"

	"deedles.dev/waywin/wire"
)

type KeyboardKeymapFormat uint32

const (
	KeyboardKeymapFormatNoKeymap KeyboardKeymapFormat = iota
	KeyboardKeymapFormatXkbV1
)

type KeyState uint32

const (
	KeyStateReleased KeyState = iota
	KeyStatePressed
)

// Keyboard is a wl_keyboard.
type Keyboard struct {
	Keymap     func(format KeyboardKeymapFormat, file *os.File, size uint32)
	Enter      func(serial uint32, s *Surface, keys []byte)
	Leave      func(serial uint32, s *Surface)
	Key        func(serial, time, key uint32, state KeyState)
	Modifiers  func(serial, depressed, latched, locked, group uint32)
	RepeatInfo func(rate, delay int32)

	base
	client *Client
}

func (k *Keyboard) Interface() string { return "wl_keyboard" }

func (k *Keyboard) MethodName(op uint16) string {
	switch op {
	case 0:
		return "keymap"
	case 1:
		return "enter"
	case 2:
		return "leave"
	case 3:
		return "key"
	case 4:
		return "modifiers"
	case 5:
		return "repeat_info"
	}
	return "unknown"
}

func (k *Keyboard) Release() {
	msg := wire.NewMessage(k, 0)
	msg.Method = "release"
	k.client.Enqueue(msg)
	k.client.DeleteObject(k.ID())
}

func (k *Keyboard) surface(id uint32) *Surface {
	s, _ := k.client.GetObject(id).(*Surface)
	return s
}

func (k *Keyboard) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // keymap
		format := msg.ReadUint()
		file := msg.ReadFile()
		size := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		if k.Keymap != nil {
			k.Keymap(KeyboardKeymapFormat(format), file, size)
		} else if file != nil {
			file.Close()
		}
		return nil

	case 1: // enter
		serial := msg.ReadUint()
		surface := msg.ReadUint()
		keys := msg.ReadArray()
		if err := msg.Err(); err != nil {
			return err
		}
		if k.Enter != nil {
			k.Enter(serial, k.surface(surface), keys)
		}
		return nil

	case 2: // leave
		serial := msg.ReadUint()
		surface := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		if k.Leave != nil {
			k.Leave(serial, k.surface(surface))
		}
		return nil

	case 3: // key
		serial := msg.ReadUint()
		time := msg.ReadUint()
		key := msg.ReadUint()
		state := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		if k.Key != nil {
			k.Key(serial, time, key, KeyState(state))
		}
		return nil

	case 4: // modifiers
		serial := msg.ReadUint()
		depressed := msg.ReadUint()
		latched := msg.ReadUint()
		locked := msg.ReadUint()
		group := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		if k.Modifiers != nil {
			k.Modifiers(serial, depressed, latched, locked, group)
		}
		return nil

	case 5: // repeat_info
		rate := msg.ReadInt()
		delay := msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}
		if k.RepeatInfo != nil {
			k.RepeatInfo(rate, delay)
		}
		return nil
	}

	return wire.UnknownOpError{Interface: k.Interface(), Op: msg.Op()}
}
