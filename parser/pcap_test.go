package parser

import (
	"bytes"
	"io/ioutil"
	"net"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testSrcMAC = net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
	testDstMAC = net.HardwareAddr{0x00, 0x66, 0x77, 0x88, 0x99, 0xaa}
)

func discardLogger() *log.Logger {
	logger := log.New()
	logger.Out = ioutil.Discard
	return logger
}

func serialize(t *testing.T, l ...gopacket.SerializableLayer) []byte {
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{
		ComputeChecksums: true,
		FixLengths:       true,
	}
	require.NoError(t, gopacket.SerializeLayers(buf, opts, l...))
	return buf.Bytes()
}

func udpPacket(t *testing.T, src, dst string, payload int) []byte {
	eth := &layers.Ethernet{SrcMAC: testSrcMAC, DstMAC: testDstMAC, EthernetType: layers.EthernetTypeIPv4}
	ip := &layers.IPv4{
		SrcIP:    net.ParseIP(src).To4(),
		DstIP:    net.ParseIP(dst).To4(),
		Version:  4,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
	}
	udp := &layers.UDP{SrcPort: 40000, DstPort: 9999}
	udp.SetNetworkLayerForChecksum(ip)
	return serialize(t, eth, ip, udp, gopacket.Payload(make([]byte, payload)))
}

func arpPacket(t *testing.T) []byte {
	eth := &layers.Ethernet{SrcMAC: testSrcMAC, DstMAC: layers.EthernetBroadcast, EthernetType: layers.EthernetTypeARP}
	arp := &layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         layers.ARPRequest,
		SourceHwAddress:   testSrcMAC,
		SourceProtAddress: []byte{192, 168, 1, 2},
		DstHwAddress:      []byte{0, 0, 0, 0, 0, 0},
		DstProtAddress:    []byte{192, 168, 1, 1},
	}
	return serialize(t, eth, arp)
}

func writeCapture(t *testing.T, start time.Time, packets ...[]byte) *bytes.Buffer {
	var buf bytes.Buffer
	w := pcapgo.NewWriter(&buf)
	require.NoError(t, w.WriteFileHeader(65536, layers.LinkTypeEthernet))
	for i, data := range packets {
		ci := gopacket.CaptureInfo{
			Timestamp:     start.Add(time.Duration(i) * 500 * time.Millisecond),
			CaptureLength: len(data),
			Length:        len(data),
		}
		require.NoError(t, w.WritePacket(ci, data))
	}
	return &buf
}

func TestReadPcap(t *testing.T) {
	start := time.Unix(1700000000, 0)
	capture := writeCapture(t, start,
		udpPacket(t, "10.0.0.1", "10.0.0.2", 100),
		udpPacket(t, "10.0.0.2", "10.0.0.1", 10),
		arpPacket(t),
	)

	rs, err := ReadPcap(capture, discardLogger())
	require.NoError(t, err)
	require.Equal(t, 3, rs.Len())

	first := rs.At(0)
	assert.Equal(t, int64(1), first.Sequence)
	assert.Equal(t, "10.0.0.1", first.Source)
	assert.Equal(t, "10.0.0.2", first.Destination)
	assert.Equal(t, "UDP", first.Protocol)
	ts, ok := first.Time()
	assert.True(t, ok)
	assert.Equal(t, 0.0, ts)
	size, ok := first.Size()
	assert.True(t, ok)
	assert.Equal(t, int64(14+20+8+100), size)

	ts, _ = rs.At(1).Time()
	assert.InDelta(t, 0.5, ts, 1e-9)

	arp := rs.At(2)
	assert.Equal(t, int64(3), arp.Sequence)
	assert.Equal(t, "ARP", arp.Protocol)
	assert.Equal(t, "192.168.1.2", arp.Source)
	assert.Equal(t, "192.168.1.1", arp.Destination)
}

func TestReadPcapInvalid(t *testing.T) {
	_, err := ReadPcap(bytes.NewReader([]byte("not a capture")), discardLogger())
	assert.Error(t, err)
}

func TestProtocolOf(t *testing.T) {
	pkt := gopacket.NewPacket(udpPacket(t, "10.0.0.1", "10.0.0.2", 4), layers.LinkTypeEthernet, gopacket.Default)
	assert.Equal(t, "UDP", protocolOf(pkt))

	src, dst := endpoints(pkt)
	assert.Equal(t, "10.0.0.1", src)
	assert.Equal(t, "10.0.0.2", dst)
}
