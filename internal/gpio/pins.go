package gpio

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

type Input interface {
	// Value returns 1 when the pin reads high and 0 when it reads low.
	Value() int
}

type Output interface {
	On() error
	Off() error
}

// Init loads the host's GPIO drivers. It must run before any pin is looked up.
func Init() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("initializing gpio drivers: %w", err)
	}
	return nil
}

type input struct {
	pin gpio.PinIO
}

// NewInput configures the named pin as a pull-up input.
func NewInput(name string) (Input, error) {
	pin, err := lookup(name)
	if err != nil {
		return nil, err
	}
	return NewInputPin(pin)
}

func NewInputPin(pin gpio.PinIO) (Input, error) {
	if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("configuring %s as input: %w", pin.Name(), err)
	}
	return &input{pin: pin}, nil
}

func (i *input) Value() int {
	if i.pin.Read() == gpio.High {
		return 1
	}
	return 0
}

type output struct {
	pin gpio.PinIO
}

// NewOutput configures the named pin as an output, initially low.
func NewOutput(name string) (Output, error) {
	pin, err := lookup(name)
	if err != nil {
		return nil, err
	}
	return NewOutputPin(pin)
}

func NewOutputPin(pin gpio.PinIO) (Output, error) {
	o := &output{pin: pin}
	if err := o.Off(); err != nil {
		return nil, fmt.Errorf("configuring %s as output: %w", pin.Name(), err)
	}
	return o, nil
}

func (o *output) On() error {
	return o.pin.Out(gpio.High)
}

func (o *output) Off() error {
	return o.pin.Out(gpio.Low)
}

func lookup(name string) (gpio.PinIO, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("unknown gpio pin %q", name)
	}
	return pin, nil
}
