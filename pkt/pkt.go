/*
ciscocore - CPU-visible packet helpers

Copyright 2024, Richard Cornwell

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

// Package pkt holds the CPU-visible packet offload helpers: frame
// classification up to IPv4/ARP and TCP/UDP/ICMP, Internet checksums, and
// the Cisco ISL trailer rewrite. Reimplemented over []byte from
// original_source/net.rs's pointer-arithmetic C/Rust, with the tagged-union
// redesign spec.md §9 calls for: L3Variant replaces the raw pointer union.
package pkt

import (
	"errors"
	"hash/crc32"

	"github.com/rcornwell/ciscocore/bitutil"
)

// Ethernet/ARP/IP/TCP/UDP field widths and well-known ethertypes.
const (
	EthHLen     = 14
	Dot1QHLen   = 18
	ISLHdrSize  = 12
	IPMinHLen   = 5 // words
	EthMTU      = 1500
	EthProtoIP  = 0x0800
	EthProtoARP = 0x0806
	EthProtoDot = 0x8100

	ProtoICMP = 1
	ProtoTCP  = 6
	ProtoUDP  = 17
)

// Context flags mirroring n_pkt_ctx_t's bitmask, kept for diagnostics; the
// classification result itself is carried in the L3Variant, not the flags.
const (
	FlagEthV2  = 0x0001
	FlagVLAN   = 0x0002
	FlagIPHOK  = 0x0100
	FlagIPFrag = 0x0200
)

// L3Variant is the tagged union spec.md §9 asks for in place of the
// pointer union between ARP and IPv4 headers.
type L3Variant interface {
	isL3Variant()
}

// ARPHeader is the classified ARP view of a frame.
type ARPHeader struct {
	HWType, ProtoType   uint16
	HWLen, ProtoLen     uint8
	Opcode              uint16
	SrcMAC, DstMAC      [6]byte
	SrcIP, DstIP        uint32
}

func (ARPHeader) isL3Variant() {}

// IPv4Header is the classified IPv4 view of a frame, with its own tagged
// L4Variant.
type IPv4Header struct {
	IHL      uint8
	TOS      uint8
	TotLen   uint16
	ID       uint16
	FragOff  uint16
	TTL      uint8
	Proto    uint8
	Checksum uint16
	SrcAddr  uint32
	DstAddr  uint32

	HeaderOK bool
	Fragment bool
	L4       L4Variant
}

func (IPv4Header) isL3Variant() {}

// Unknown marks a frame that classified below IP/ARP (LLC/SNAP or an
// unrecognised ethertype).
type Unknown struct{}

func (Unknown) isL3Variant() {}

// L4Variant is the TCP/UDP/ICMP/unknown tagged union for the L4 header.
type L4Variant interface {
	isL4Variant()
}

type TCPHeader struct {
	SrcPort, DstPort   uint16
	Seq, Ack           uint32
	DataOffset         uint8
	Flags              uint8
	Window             uint16
	Checksum           uint16
	UrgentPtr          uint16
	Offset             int // byte offset of this header within the frame
}

func (TCPHeader) isL4Variant() {}

type UDPHeader struct {
	SrcPort, DstPort uint16
	Length           uint16
	Checksum         uint16
	Offset           int
}

func (UDPHeader) isL4Variant() {}

type ICMPHeader struct {
	Offset int
}

func (ICMPHeader) isL4Variant() {}

type L4Unknown struct{}

func (L4Unknown) isL4Variant() {}

// Context is the classified view of one Ethernet frame.
type Context struct {
	Frame  []byte
	Flags  uint32
	VLANID uint16
	L3     L3Variant
}

var errTooShort = errors.New("pkt: frame shorter than header")

// Analyze classifies frame up to Ethernet II/802.1Q, then IPv4/ARP,
// validating the IPv4 header length and checksum and recording L4 and the
// fragment flag. Grounded on net.rs's pkt_ctx_analyze.
func Analyze(frame []byte) (*Context, error) {
	if len(frame) < EthHLen {
		return nil, errTooShort
	}
	ctx := &Context{Frame: frame, L3: Unknown{}}

	ethType := bitutil.NtoH16(frame[12:14])
	off := EthHLen

	if ethType >= EthMTU && ethType == EthProtoDot {
		if len(frame) < Dot1QHLen {
			return nil, errTooShort
		}
		ctx.Flags |= FlagVLAN
		ctx.VLANID = bitutil.NtoH16(frame[14:16])
		ethType = bitutil.NtoH16(frame[16:18])
		off = Dot1QHLen
	}

	if ethType < EthMTU {
		// LLC/SNAP framing: not classified further.
		return ctx, nil
	}
	ctx.Flags |= FlagEthV2

	switch ethType {
	case EthProtoIP:
		ip, err := parseIPv4(frame[off:])
		if err != nil {
			return ctx, nil //nolint:nilerr // malformed IP: classify as Unknown, not an error
		}
		ctx.L3 = ip

	case EthProtoARP:
		arp, ok := parseARP(frame[off:])
		if ok {
			ctx.L3 = arp
		}

	default:
		// Unrecognised ethertype: stays Unknown.
	}

	return ctx, nil
}

func parseARP(b []byte) (ARPHeader, bool) {
	if len(b) < 28 {
		return ARPHeader{}, false
	}
	var a ARPHeader
	a.HWType = bitutil.NtoH16(b[0:2])
	a.ProtoType = bitutil.NtoH16(b[2:4])
	a.HWLen = b[4]
	a.ProtoLen = b[5]
	a.Opcode = bitutil.NtoH16(b[6:8])
	copy(a.SrcMAC[:], b[8:14])
	a.SrcIP = bitutil.NtoH32(b[14:18])
	copy(a.DstMAC[:], b[18:24])
	a.DstIP = bitutil.NtoH32(b[24:28])
	return a, true
}

func parseIPv4(b []byte) (IPv4Header, error) {
	if len(b) < 20 {
		return IPv4Header{}, errTooShort
	}
	var ip IPv4Header
	verIHL := b[0]
	ip.IHL = verIHL & 0x0F
	ip.TOS = b[1]
	ip.TotLen = bitutil.NtoH16(b[2:4])
	ip.ID = bitutil.NtoH16(b[4:6])
	ip.FragOff = bitutil.NtoH16(b[6:8])
	ip.TTL = b[8]
	ip.Proto = b[9]
	ip.Checksum = bitutil.NtoH16(b[10:12])
	ip.SrcAddr = bitutil.NtoH32(b[12:16])
	ip.DstAddr = bitutil.NtoH32(b[16:20])

	hlenBytes := int(ip.IHL) << 2
	if verIHL&0xF0 != 0x40 || ip.IHL < IPMinHLen || hlenBytes > int(ip.TotLen) || hlenBytes > len(b) {
		return ip, nil
	}
	if !VerifyIPChecksum(b[:hlenBytes]) {
		return ip, nil
	}
	ip.HeaderOK = true

	if ip.FragOff&0x1FFF != 0 || ip.FragOff&0x2000 != 0 {
		ip.Fragment = true
	}

	l4 := b[hlenBytes:]
	switch ip.Proto {
	case ProtoTCP:
		ip.L4 = parseTCP(l4, hlenBytes)
	case ProtoUDP:
		ip.L4 = parseUDP(l4, hlenBytes)
	case ProtoICMP:
		ip.L4 = ICMPHeader{Offset: hlenBytes}
	default:
		ip.L4 = L4Unknown{}
	}
	return ip, nil
}

func parseTCP(b []byte, offset int) L4Variant {
	if len(b) < 20 {
		return L4Unknown{}
	}
	return TCPHeader{
		SrcPort:    bitutil.NtoH16(b[0:2]),
		DstPort:    bitutil.NtoH16(b[2:4]),
		Seq:        bitutil.NtoH32(b[4:8]),
		Ack:        bitutil.NtoH32(b[8:12]),
		DataOffset: b[12] >> 4,
		Flags:      b[13] & 0x3F,
		Window:     bitutil.NtoH16(b[14:16]),
		Checksum:   bitutil.NtoH16(b[16:18]),
		UrgentPtr:  bitutil.NtoH16(b[18:20]),
		Offset:     offset,
	}
}

func parseUDP(b []byte, offset int) L4Variant {
	if len(b) < 8 {
		return L4Unknown{}
	}
	return UDPHeader{
		SrcPort:  bitutil.NtoH16(b[0:2]),
		DstPort:  bitutil.NtoH16(b[2:4]),
		Length:   bitutil.NtoH16(b[4:6]),
		Checksum: bitutil.NtoH16(b[6:8]),
		Offset:   offset,
	}
}

// ipCksumPartial folds b (treated as a run of big-endian 16-bit words, with
// a trailing odd byte padded high) into a 32-bit one's-complement partial
// sum, not yet folded to 16 bits. Grounded on net.rs's ip_cksum_partial.
func ipCksumPartial(b []byte) uint32 {
	var sum uint32
	for len(b) > 1 {
		sum += uint32(b[0])<<8 | uint32(b[1])
		b = b[2:]
	}
	if len(b) == 1 {
		sum += uint32(b[0]) << 8
	}
	return sum
}

func foldCksum(sum uint32) uint16 {
	for sum>>16 != 0 {
		sum = (sum & 0xFFFF) + (sum >> 16)
	}
	return uint16(sum)
}

// VerifyIPChecksum reports whether the IPv4 header hdr (exactly IHL words
// long) carries a correct Internet checksum.
func VerifyIPChecksum(hdr []byte) bool {
	return foldCksum(ipCksumPartial(hdr)) == 0xFFFF
}

// ComputeIPChecksum zeroes hdr's checksum field and writes the correct
// Internet checksum into it. hdr must be exactly IHL words long.
func ComputeIPChecksum(hdr []byte) {
	bitutil.HtoN16(hdr[10:12], 0)
	sum := ipCksumPartial(hdr)
	bitutil.HtoN16(hdr[10:12], ^foldCksum(sum))
}

// TCPUDPChecksum computes the TCP/UDP checksum over l4 (from its own
// header through payload), optionally including the IPv4 pseudo-header.
// The caller's stored checksum field, if any, must already be zeroed by
// the caller (pkt_ctx_tcp_cksum instead zeroes/restores it in place; here
// the caller is expected to pass a copy or zero it beforehand, since a Go
// slice has no "restore after" step worth keeping from the C original).
func TCPUDPChecksum(l4 []byte, srcAddr, dstAddr uint32, proto uint8, withPseudoHeader bool) uint16 {
	sum := ipCksumPartial(l4)
	if withPseudoHeader {
		var ph [8]byte
		bitutil.HtoN32(ph[0:4], srcAddr)
		bitutil.HtoN32(ph[4:8], dstAddr)
		sum += ipCksumPartial(ph[:])
		sum += uint32(proto) + uint32(len(l4))
	}
	return ^foldCksum(sum)
}

var islXAddr = [6]byte{0x01, 0x00, 0x0c, 0x00, 0x10, 0x00}

// ISLRewrite validates frame's Cisco ISL destination address and, if
// present, rewrites the destination MAC and recomputes the CRC32 trailer
// over the encapsulated frame. Grounded on net.rs's cisco_isl_rewrite.
func ISLRewrite(frame []byte) {
	if len(frame) < EthHLen || !bytesEqual(frame[0:6], islXAddr[:]) {
		return
	}
	realOffset := EthHLen + ISLHdrSize
	realLen := int(bitutil.NtoH16(frame[12:14]))
	realLen -= ISLHdrSize + 4
	if realLen < 0 || realOffset+realLen > len(frame) {
		return
	}

	frame[4] = 0x00

	ifcs := crc32.ChecksumIEEE(frame[realOffset : realOffset+realLen])
	tail := len(frame) - 4
	frame[tail] = byte(ifcs)
	frame[tail+1] = byte(ifcs >> 8)
	frame[tail+2] = byte(ifcs >> 16)
	frame[tail+3] = byte(ifcs >> 24)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
