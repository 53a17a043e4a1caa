package parser

import (
	"io"
	"time"

	"github.com/activecm/trafficlens/pkg/packet"
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	log "github.com/sirupsen/logrus"
)

// ReadPcap decodes a pcap stream into records. Timestamps are seconds since
// the first packet, endpoints are network addresses falling back to link
// addresses and the protocol is the highest decoded layer.
func ReadPcap(r io.Reader, logger *log.Logger) (*packet.RecordSet, error) {
	rs, _, err := readPcap(r, logger)
	return rs, err
}

// ReadPcapNg decodes a pcapng stream into records like ReadPcap
func ReadPcapNg(r io.Reader, logger *log.Logger) (*packet.RecordSet, error) {
	rs, _, err := readPcapNg(r, logger)
	return rs, err
}

func readPcap(r io.Reader, logger *log.Logger) (*packet.RecordSet, time.Time, error) {
	reader, err := pcapgo.NewReader(r)
	if err != nil {
		return nil, time.Time{}, err
	}
	return readPackets(reader, reader.LinkType(), logger)
}

func readPcapNg(r io.Reader, logger *log.Logger) (*packet.RecordSet, time.Time, error) {
	reader, err := pcapgo.NewNgReader(r, pcapgo.DefaultNgReaderOptions)
	if err != nil {
		return nil, time.Time{}, err
	}
	return readPackets(reader, reader.LinkType(), logger)
}

// readPackets also returns the capture time of the first packet, which is
// zero for an empty capture
func readPackets(source gopacket.PacketDataSource, linkType layers.LinkType, logger *log.Logger) (*packet.RecordSet, time.Time, error) {
	var records []packet.Record
	var start time.Time
	var decodeFailures int

	for {
		data, ci, err := source.ReadPacketData()
		if err == io.EOF {
			break
		}
		if err != nil {
			// a truncated capture keeps the packets read so far
			logger.WithFields(log.Fields{
				"error":   err.Error(),
				"packets": len(records),
			}).Warn("Stopped reading capture early")
			break
		}

		pkt := gopacket.NewPacket(data, linkType, gopacket.DecodeOptions{Lazy: true, NoCopy: true})
		if pkt.ErrorLayer() != nil {
			decodeFailures++
		}

		if len(records) == 0 {
			start = ci.Timestamp
		}
		ts := ci.Timestamp.Sub(start).Seconds()

		src, dst := endpoints(pkt)
		records = append(records, packet.Record{
			Sequence:    int64(len(records) + 1),
			Timestamp:   packet.Float(ts),
			Source:      src,
			Destination: dst,
			Protocol:    protocolOf(pkt),
			Length:      packet.Int(int64(ci.Length)),
		})
	}

	if decodeFailures > 0 {
		logger.WithFields(log.Fields{
			"packets": decodeFailures,
		}).Debug("Some packets could not be fully decoded")
	}
	return packet.New(records), start, nil
}

// endpoints returns the network addresses of a packet, or its link
// addresses when it has no network layer
func endpoints(pkt gopacket.Packet) (string, string) {
	if net := pkt.NetworkLayer(); net != nil {
		src, dst := net.NetworkFlow().Endpoints()
		return src.String(), dst.String()
	}
	if arp, ok := pkt.Layer(layers.LayerTypeARP).(*layers.ARP); ok {
		return arpAddress(arp.SourceProtAddress), arpAddress(arp.DstProtAddress)
	}
	if link := pkt.LinkLayer(); link != nil {
		src, dst := link.LinkFlow().Endpoints()
		return src.String(), dst.String()
	}
	return "", ""
}

// arpAddress renders an IPv4 protocol address carried in an ARP message
func arpAddress(addr []byte) string {
	if len(addr) != 4 {
		return ""
	}
	return gopacket.NewEndpoint(layers.EndpointIPv4, addr).String()
}

// protocolOf names the highest decoded layer of a packet
func protocolOf(pkt gopacket.Packet) string {
	all := pkt.Layers()
	for i := len(all) - 1; i >= 0; i-- {
		switch all[i].LayerType() {
		case gopacket.LayerTypePayload, gopacket.LayerTypeDecodeFailure, gopacket.LayerTypeFragment:
			continue
		}
		return all[i].LayerType().String()
	}
	return ""
}
