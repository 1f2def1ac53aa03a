package pcap

// Offline extraction of APDUs carried in UDP datagrams.

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// pcapngMagic is the section header block type that opens a pcapng file.
const pcapngMagic = 0x0A0D0D0A

// Payload is one APDU lifted from a capture, with its transport metadata.
type Payload struct {
	Index     int // position among extracted payloads, from 1
	Packet    int // packet number in the capture, from 1
	Timestamp time.Time
	SrcIP     string
	DstIP     string
	SrcPort   uint16
	DstPort   uint16
	Data      []byte
}

// Source describes where the payload came from, for logs and reports.
func (p Payload) Source() string {
	return fmt.Sprintf("packet %d %s:%d -> %s:%d", p.Packet, p.SrcIP, p.SrcPort, p.DstIP, p.DstPort)
}

// ExtractOptions selects which datagrams are returned.
type ExtractOptions struct {
	Ports      []int // UDP ports carrying APDUs (source or destination)
	MaxPayload int   // stop after this many payloads; 0 = no limit
}

func (o ExtractOptions) matches(src, dst uint16) bool {
	if len(o.Ports) == 0 {
		return true
	}
	for _, p := range o.Ports {
		if int(src) == p || int(dst) == p {
			return true
		}
	}
	return false
}

// ExtractPayloads reads a pcap or pcapng file and returns the UDP payloads
// on the selected ports in capture order.
func ExtractPayloads(path string, opts ExtractOptions) ([]Payload, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pcap file: %w", err)
	}
	defer file.Close()
	return ExtractPayloadsFrom(file, opts)
}

// ExtractPayloadsFrom is ExtractPayloads over an already opened stream.
func ExtractPayloadsFrom(r io.Reader, opts ExtractOptions) ([]Payload, error) {
	source, err := newPacketSource(r)
	if err != nil {
		return nil, err
	}

	var payloads []Payload
	packetNum := 0
	for {
		packet, err := source.NextPacket()
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return payloads, fmt.Errorf("read packet %d: %w", packetNum+1, err)
		}
		packetNum++

		udpLayer := packet.Layer(layers.LayerTypeUDP)
		if udpLayer == nil {
			continue
		}
		udp, _ := udpLayer.(*layers.UDP)
		if len(udp.Payload) == 0 || !opts.matches(uint16(udp.SrcPort), uint16(udp.DstPort)) {
			continue
		}

		p := Payload{
			Index:     len(payloads) + 1,
			Packet:    packetNum,
			Timestamp: packet.Metadata().Timestamp,
			SrcPort:   uint16(udp.SrcPort),
			DstPort:   uint16(udp.DstPort),
			Data:      append([]byte(nil), udp.Payload...),
		}
		if netLayer := packet.NetworkLayer(); netLayer != nil {
			flow := netLayer.NetworkFlow()
			p.SrcIP = flow.Src().String()
			p.DstIP = flow.Dst().String()
		}
		payloads = append(payloads, p)

		if opts.MaxPayload > 0 && len(payloads) >= opts.MaxPayload {
			break
		}
	}

	return payloads, nil
}

// newPacketSource sniffs the file magic and opens a pcap or pcapng reader.
func newPacketSource(r io.Reader) (*gopacket.PacketSource, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(4)
	if err != nil {
		return nil, fmt.Errorf("read pcap header: %w", err)
	}

	if binary.LittleEndian.Uint32(magic) == pcapngMagic {
		ng, err := pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
		if err != nil {
			return nil, fmt.Errorf("open pcapng: %w", err)
		}
		return gopacket.NewPacketSource(ng, ng.LinkType()), nil
	}

	reader, err := pcapgo.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("open pcap: %w", err)
	}
	return gopacket.NewPacketSource(reader, reader.LinkType()), nil
}
