package pkt

import (
	"testing"

	"github.com/rcornwell/ciscocore/bitutil"
)

func buildIPv4Header(totLen uint16, proto uint8) []byte {
	h := make([]byte, 20)
	h[0] = 0x45 // version 4, IHL 5
	bitutil.HtoN16(h[2:4], totLen)
	h[8] = 64 // TTL
	h[9] = proto
	bitutil.HtoN32(h[12:16], 0x0A000001)
	bitutil.HtoN32(h[16:20], 0x0A000002)
	ComputeIPChecksum(h)
	return h
}

func TestIPChecksumIdempotence(t *testing.T) {
	// spec.md §8: ip_compute_cksum(h); assert ip_verify_cksum(h)
	h := buildIPv4Header(40, ProtoUDP)
	if !VerifyIPChecksum(h) {
		t.Fatal("freshly computed IPv4 checksum failed to verify")
	}
}

func TestAnalyzeClassifiesIPv4UDP(t *testing.T) {
	ipHdr := buildIPv4Header(28, ProtoUDP)
	udp := make([]byte, 8)
	bitutil.HtoN16(udp[0:2], 1234)
	bitutil.HtoN16(udp[2:4], 53)
	bitutil.HtoN16(udp[4:6], 8)

	frame := make([]byte, EthHLen+len(ipHdr)+len(udp))
	bitutil.HtoN16(frame[12:14], EthProtoIP)
	copy(frame[EthHLen:], ipHdr)
	copy(frame[EthHLen+len(ipHdr):], udp)

	ctx, err := Analyze(frame)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	ip, ok := ctx.L3.(IPv4Header)
	if !ok {
		t.Fatalf("L3 = %T, want IPv4Header", ctx.L3)
	}
	if !ip.HeaderOK {
		t.Error("expected HeaderOK")
	}
	u, ok := ip.L4.(UDPHeader)
	if !ok {
		t.Fatalf("L4 = %T, want UDPHeader", ip.L4)
	}
	if u.DstPort != 53 {
		t.Errorf("DstPort = %d, want 53", u.DstPort)
	}
}

func TestAnalyzeUnknownEthertype(t *testing.T) {
	frame := make([]byte, EthHLen+4)
	bitutil.HtoN16(frame[12:14], 0x9999)
	ctx, err := Analyze(frame)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if _, ok := ctx.L3.(Unknown); !ok {
		t.Errorf("L3 = %T, want Unknown", ctx.L3)
	}
}

func TestISLRewriteRecomputesCRC(t *testing.T) {
	payload := []byte("hello, router")
	realLen := len(payload)
	tot := EthHLen + ISLHdrSize + realLen + 4

	frame := make([]byte, tot)
	copy(frame[0:6], islXAddr[:])
	bitutil.HtoN16(frame[12:14], uint16(ISLHdrSize+4+realLen))
	copy(frame[EthHLen+ISLHdrSize:], payload)

	ISLRewrite(frame)

	if frame[4] != 0x00 {
		t.Errorf("destination MAC byte 4 not rewritten: %#x", frame[4])
	}
	tail := tot - 4
	fcs := uint32(frame[tail]) | uint32(frame[tail+1])<<8 | uint32(frame[tail+2])<<16 | uint32(frame[tail+3])<<24
	if fcs == 0 {
		t.Error("expected nonzero recomputed CRC32")
	}
}
