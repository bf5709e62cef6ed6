package hardware

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"

	"github.com/kso512/timestamper/internal/models"
)

// WS2812 bits are emitted over SPI at three times the LED bit rate: a one is
// 110 and a zero is 100. The trailing zero bytes hold the line low long
// enough for the LEDs to latch.
const (
	ws2812SPIFreq  = 2400 * physic.KiloHertz
	ws2812ResetLen = 24
)

// NeoPixel is a single WS2812 LED driven from an SPI MOSI line.
type NeoPixel struct {
	port spi.PortCloser
	conn spi.Conn
}

// OpenNeoPixel opens the SPI port the LED data line is wired to. InitHost
// must have been called.
func OpenNeoPixel(port string) (*NeoPixel, error) {
	p, err := spireg.Open(port)
	if err != nil {
		return nil, fmt.Errorf("neopixel: open SPI %s: %w", port, err)
	}
	conn, err := p.Connect(ws2812SPIFreq, spi.Mode0, 8)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("neopixel: connect SPI: %w", err)
	}
	return &NeoPixel{port: p, conn: conn}, nil
}

// Close turns the LED off and releases the SPI port.
func (n *NeoPixel) Close() error {
	_ = n.Fill(models.ColorOff)
	return n.port.Close()
}

func (n *NeoPixel) Fill(c models.Color) error {
	return n.conn.Tx(encodeWS2812([]models.Color{c}), nil)
}

// encodeWS2812 returns the SPI stream for a chain of LEDs in GRB order.
func encodeWS2812(colors []models.Color) []byte {
	out := make([]byte, 0, len(colors)*9+ws2812ResetLen)
	for _, c := range colors {
		for _, v := range [3]byte{c.G, c.R, c.B} {
			var bits uint32
			for i := 7; i >= 0; i-- {
				if v&(1<<i) != 0 {
					bits = bits<<3 | 0b110
				} else {
					bits = bits<<3 | 0b100
				}
			}
			out = append(out, byte(bits>>16), byte(bits>>8), byte(bits))
		}
	}
	return append(out, make([]byte, ws2812ResetLen)...)
}

var _ Light = (*NeoPixel)(nil)
