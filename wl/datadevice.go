package wl

import (
	"os"

	"deedles.dev/waywin/wire"
)

// DataDeviceManager is the wl_data_device_manager global.
type DataDeviceManager struct {
	base
	client *Client
}

const dataDeviceManagerVersion = 3

func IsDataDeviceManager(i Interface) bool {
	return i.Is("wl_data_device_manager", dataDeviceManagerVersion)
}

func BindDataDeviceManager(c *Client, name uint32) *DataDeviceManager {
	ddm := DataDeviceManager{client: c}
	c.AddObject(&ddm)
	c.Display().GetRegistry().Bind(name, "wl_data_device_manager", dataDeviceManagerVersion, &ddm)
	return &ddm
}

func (m *DataDeviceManager) Interface() string        { return "wl_data_device_manager" }
func (m *DataDeviceManager) MethodName(uint16) string { return "unknown" }

func (m *DataDeviceManager) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: m.Interface(), Op: msg.Op()}
}

func (m *DataDeviceManager) CreateDataSource() *DataSource {
	src := DataSource{client: m.client}
	m.client.AddObject(&src)

	msg := wire.NewMessage(m, 0)
	msg.Method = "create_data_source"
	msg.Args = []any{src.ID()}
	msg.WriteUint(src.ID())
	m.client.Enqueue(msg)

	return &src
}

func (m *DataDeviceManager) GetDataDevice(seat *Seat) *DataDevice {
	dev := DataDevice{client: m.client}
	m.client.AddObject(&dev)

	msg := wire.NewMessage(m, 1)
	msg.Method = "get_data_device"
	msg.Args = []any{dev.ID(), seat.ID()}
	msg.WriteUint(dev.ID())
	msg.WriteUint(seat.ID())
	m.client.Enqueue(msg)

	return &dev
}

// DataDevice is a per-seat wl_data_device.
type DataDevice struct {
	// DataOffer announces a new offer object. The offer's Offer
	// field should be set before returning so the MIME types that
	// follow immediately are captured.
	DataOffer func(offer *DataOffer)
	// Selection announces the offer that now backs the clipboard, or
	// nil when the selection is empty.
	Selection func(offer *DataOffer)
	Enter     func(serial uint32, s *Surface, x, y wire.Fixed, offer *DataOffer)
	Leave     func()
	Drop      func()

	base
	client *Client
}

func (d *DataDevice) Interface() string { return "wl_data_device" }

func (d *DataDevice) MethodName(op uint16) string {
	switch op {
	case 0:
		return "data_offer"
	case 1:
		return "enter"
	case 2:
		return "leave"
	case 3:
		return "motion"
	case 4:
		return "drop"
	case 5:
		return "selection"
	}
	return "unknown"
}

// SetSelection advertises src as the new clipboard contents, using
// the most recent input serial.
func (d *DataDevice) SetSelection(src *DataSource, serial uint32) {
	msg := wire.NewMessage(d, 1)
	msg.Method = "set_selection"
	var id uint32
	if src != nil {
		id = src.ID()
	}
	msg.Args = []any{id, serial}
	msg.WriteUint(id)
	msg.WriteUint(serial)
	d.client.Enqueue(msg)
}

func (d *DataDevice) Release() {
	msg := wire.NewMessage(d, 2)
	msg.Method = "release"
	d.client.Enqueue(msg)
	d.client.DeleteObject(d.ID())
}

func (d *DataDevice) offer(id uint32) *DataOffer {
	o, _ := d.client.GetObject(id).(*DataOffer)
	return o
}

func (d *DataDevice) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // data_offer
		id := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		offer := DataOffer{client: d.client}
		offer.SetID(id)
		d.client.AddObject(&offer)
		if d.DataOffer != nil {
			d.DataOffer(&offer)
		}
		return nil

	case 1: // enter
		serial := msg.ReadUint()
		surface := msg.ReadUint()
		x := msg.ReadFixed()
		y := msg.ReadFixed()
		id := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		if d.Enter != nil {
			s, _ := d.client.GetObject(surface).(*Surface)
			d.Enter(serial, s, x, y, d.offer(id))
		}
		return nil

	case 2: // leave
		if d.Leave != nil {
			d.Leave()
		}
		return nil

	case 3: // motion
		msg.ReadUint()
		msg.ReadFixed()
		msg.ReadFixed()
		return msg.Err()

	case 4: // drop
		if d.Drop != nil {
			d.Drop()
		}
		return nil

	case 5: // selection
		id := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		if d.Selection != nil {
			d.Selection(d.offer(id))
		}
		return nil
	}

	return wire.UnknownOpError{Interface: d.Interface(), Op: msg.Op()}
}

// DataOffer is a wl_data_offer advertised by the compositor.
type DataOffer struct {
	// Offer is invoked once per MIME type the source offers.
	Offer func(mime string)

	base
	client *Client
}

func (o *DataOffer) Interface() string { return "wl_data_offer" }

func (o *DataOffer) MethodName(op uint16) string {
	switch op {
	case 0:
		return "offer"
	case 1:
		return "source_actions"
	case 2:
		return "action"
	}
	return "unknown"
}

// Receive asks the source to write the data for mime into the write
// end of a pipe. The file is duplicated for the transfer; the caller
// keeps ownership and should close it promptly so the source sees
// EOF readers correctly.
func (o *DataOffer) Receive(mime string, w *os.File) {
	msg := wire.NewMessage(o, 1)
	msg.Method = "receive"
	msg.Args = []any{mime, w}
	msg.WriteString(mime)
	msg.WriteFile(w)
	o.client.Enqueue(msg)
}

func (o *DataOffer) Destroy() {
	msg := wire.NewMessage(o, 2)
	msg.Method = "destroy"
	o.client.Enqueue(msg)
	o.client.DeleteObject(o.ID())
}

func (o *DataOffer) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // offer
		mime := msg.ReadString()
		if err := msg.Err(); err != nil {
			return err
		}
		if o.Offer != nil {
			o.Offer(mime)
		}
		return nil

	case 1, 2: // source_actions, action
		msg.ReadUint()
		return msg.Err()
	}

	return wire.UnknownOpError{Interface: o.Interface(), Op: msg.Op()}
}

// DataSource is a wl_data_source created by this client.
type DataSource struct {
	// Send is invoked when a peer asks for the data as mime. The
	// implementation writes into w and closes it.
	Send func(mime string, w *os.File)
	// Cancelled is invoked when the source has been replaced and
	// should be destroyed.
	Cancelled func()

	base
	client *Client
}

func (s *DataSource) Interface() string { return "wl_data_source" }

func (s *DataSource) MethodName(op uint16) string {
	switch op {
	case 0:
		return "target"
	case 1:
		return "send"
	case 2:
		return "cancelled"
	}
	return "unknown"
}

// Offer adds mime to the set of types the source can produce.
func (s *DataSource) Offer(mime string) {
	msg := wire.NewMessage(s, 0)
	msg.Method = "offer"
	msg.Args = []any{mime}
	msg.WriteString(mime)
	s.client.Enqueue(msg)
}

func (s *DataSource) Destroy() {
	msg := wire.NewMessage(s, 1)
	msg.Method = "destroy"
	s.client.Enqueue(msg)
	s.client.DeleteObject(s.ID())
}

func (s *DataSource) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // target
		msg.ReadString()
		return msg.Err()

	case 1: // send
		mime := msg.ReadString()
		file := msg.ReadFile()
		if err := msg.Err(); err != nil {
			return err
		}
		if s.Send != nil {
			s.Send(mime, file)
		} else if file != nil {
			file.Close()
		}
		return nil

	case 2: // cancelled
		if s.Cancelled != nil {
			s.Cancelled()
		}
		return nil

	case 3, 4: // dnd_drop_performed, dnd_finished
		return nil

	case 5: // action
		msg.ReadUint()
		return msg.Err()
	}

	return wire.UnknownOpError{Interface: s.Interface(), Op: msg.Op()}
}
