package pcap

import (
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// Addresses used when a payload does not carry its own.
var (
	defaultSrcIP = net.IPv4(10, 0, 0, 2)
	defaultDstIP = net.IPv4(10, 0, 0, 1)
)

const defaultSrcPort = 50000

func checkPort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid UDP port %d (must be 1-65535)", port)
	}
	return nil
}

// WritePayloads writes payloads as Ethernet/IPv4/UDP frames to a new pcap
// file. Zero metadata fields fall back to fixed addresses and dstPort.
func WritePayloads(path string, dstPort int, payloads []Payload) error {
	if err := checkPort(dstPort); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create pcap: %w", err)
	}
	if err := WritePayloadsTo(file, dstPort, payloads); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WritePayloadsTo is WritePayloads over an io.Writer.
func WritePayloadsTo(w io.Writer, dstPort int, payloads []Payload) error {
	if err := checkPort(dstPort); err != nil {
		return err
	}
	writer := pcapgo.NewWriter(w)
	if err := writer.WriteFileHeader(65535, layers.LinkTypeEthernet); err != nil {
		return fmt.Errorf("write pcap header: %w", err)
	}

	base := time.Unix(1700000000, 0).UTC()
	for i, p := range payloads {
		frame, err := serializeUDP(p, dstPort)
		if err != nil {
			return fmt.Errorf("serialize payload %d: %w", i+1, err)
		}
		ts := p.Timestamp
		if ts.IsZero() {
			ts = base.Add(time.Duration(i) * time.Second)
		}
		ci := gopacket.CaptureInfo{
			Timestamp:     ts,
			CaptureLength: len(frame),
			Length:        len(frame),
		}
		if err := writer.WritePacket(ci, frame); err != nil {
			return fmt.Errorf("write packet %d: %w", i+1, err)
		}
	}
	return nil
}

func serializeUDP(p Payload, dstPort int) ([]byte, error) {
	srcIP := parseIPOr(p.SrcIP, defaultSrcIP)
	dstIP := parseIPOr(p.DstIP, defaultDstIP)
	srcPort := p.SrcPort
	if srcPort == 0 {
		srcPort = defaultSrcPort
	}
	dst := p.DstPort
	if dst == 0 {
		dst = uint16(dstPort)
	}

	ethernet := &layers.Ethernet{
		SrcMAC:       net.HardwareAddr{0x00, 0x00, 0x00, 0x00, 0x00, 0x01},
		DstMAC:       net.HardwareAddr{0x00, 0x00, 0x00, 0x00, 0x00, 0x02},
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := &layers.IPv4{
		Version:  4,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    srcIP,
		DstIP:    dstIP,
	}
	udp := &layers.UDP{
		SrcPort: layers.UDPPort(srcPort),
		DstPort: layers.UDPPort(dst),
	}
	if err := udp.SetNetworkLayerForChecksum(ip); err != nil {
		return nil, err
	}

	buffer := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{
		FixLengths:       true,
		ComputeChecksums: true,
	}
	if err := gopacket.SerializeLayers(buffer, opts, ethernet, ip, udp, gopacket.Payload(p.Data)); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func parseIPOr(s string, def net.IP) net.IP {
	if ip := net.ParseIP(s).To4(); ip != nil {
		return ip
	}
	return def.To4()
}
