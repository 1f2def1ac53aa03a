package pcap

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteExtractRoundTrip(t *testing.T) {
	payloads := []Payload{
		{Data: []byte{0x01, 0x02, 0x03}},
		{Data: []byte{0xAA}, SrcIP: "192.168.1.5", DstIP: "192.168.1.1", SrcPort: 40000},
		{Data: []byte{0x10, 0x20}, DstPort: 9999},
	}
	path := filepath.Join(t.TempDir(), "diag.pcap")
	if err := WritePayloads(path, 7600, payloads); err != nil {
		t.Fatalf("WritePayloads: %v", err)
	}

	got, err := ExtractPayloads(path, ExtractOptions{Ports: []int{7600}})
	if err != nil {
		t.Fatalf("ExtractPayloads: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("extracted %d payloads, want 2", len(got))
	}
	if !bytes.Equal(got[0].Data, payloads[0].Data) {
		t.Errorf("payload 1 = % X, want % X", got[0].Data, payloads[0].Data)
	}
	if got[0].SrcIP != "10.0.0.2" || got[0].DstIP != "10.0.0.1" || got[0].DstPort != 7600 {
		t.Errorf("payload 1 meta = %+v", got[0])
	}
	if got[1].SrcIP != "192.168.1.5" || got[1].SrcPort != 40000 {
		t.Errorf("payload 2 meta = %+v", got[1])
	}
	if got[1].Index != 2 || got[1].Packet != 2 {
		t.Errorf("payload 2 index/packet = %d/%d", got[1].Index, got[1].Packet)
	}
	if !got[0].Timestamp.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("timestamp = %v", got[0].Timestamp)
	}
}

func TestExtractAllPorts(t *testing.T) {
	var buf bytes.Buffer
	payloads := []Payload{{Data: []byte{1}}, {Data: []byte{2}, DstPort: 1234}}
	if err := WritePayloadsTo(&buf, 7600, payloads); err != nil {
		t.Fatalf("WritePayloadsTo: %v", err)
	}
	got, err := ExtractPayloadsFrom(&buf, ExtractOptions{})
	if err != nil {
		t.Fatalf("ExtractPayloadsFrom: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("extracted %d payloads, want 2", len(got))
	}
}

func TestExtractMaxPayload(t *testing.T) {
	var buf bytes.Buffer
	payloads := []Payload{{Data: []byte{1}}, {Data: []byte{2}}, {Data: []byte{3}}}
	if err := WritePayloadsTo(&buf, 7600, payloads); err != nil {
		t.Fatalf("WritePayloadsTo: %v", err)
	}
	got, err := ExtractPayloadsFrom(&buf, ExtractOptions{Ports: []int{7600}, MaxPayload: 2})
	if err != nil {
		t.Fatalf("ExtractPayloadsFrom: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("extracted %d payloads, want 2", len(got))
	}
}

func TestExtractErrors(t *testing.T) {
	if _, err := ExtractPayloads(filepath.Join(t.TempDir(), "missing.pcap"), ExtractOptions{}); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "junk.pcap")
	if err := os.WriteFile(path, []byte("not a capture at all"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ExtractPayloads(path, ExtractOptions{}); err == nil {
		t.Error("expected error for non-pcap file")
	}

	if _, err := ExtractPayloadsFrom(bytes.NewReader([]byte{0x01}), ExtractOptions{}); err == nil {
		t.Error("expected error for short header")
	}
}

func TestPayloadSource(t *testing.T) {
	p := Payload{Packet: 3, SrcIP: "10.0.0.2", SrcPort: 50000, DstIP: "10.0.0.1", DstPort: 7600}
	if got := p.Source(); got != "packet 3 10.0.0.2:50000 -> 10.0.0.1:7600" {
		t.Errorf("Source() = %q", got)
	}
}

func TestWritePayloadsRejectsPort(t *testing.T) {
	for _, port := range []int{0, -1, 65536, 70000} {
		var buf bytes.Buffer
		if err := WritePayloadsTo(&buf, port, []Payload{{Data: []byte{1}}}); err == nil {
			t.Errorf("port %d: expected error", port)
		}
		if buf.Len() != 0 {
			t.Errorf("port %d: wrote %d bytes", port, buf.Len())
		}
	}

	path := filepath.Join(t.TempDir(), "bad.pcap")
	if err := WritePayloads(path, 70000, []Payload{{Data: []byte{1}}}); err == nil {
		t.Fatal("expected error for port 70000")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("capture file created for rejected port")
	}
}
