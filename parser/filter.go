package parser

import (
	"net"

	"github.com/activecm/trafficlens/config"
	"github.com/activecm/trafficlens/pkg/packet"
	"github.com/activecm/trafficlens/util"
)

// filter drops records involving addresses the user never wants analyzed.
// Endpoints which are not IP addresses, such as MAC addresses, never match.
type filter struct {
	alwaysIncluded []*net.IPNet // always include these subnets
	neverIncluded  []*net.IPNet // never include these subnets
}

func newFilter(conf *config.Config) filter {
	return filter{
		alwaysIncluded: conf.R.Filtering.AlwaysIncludedSubnets,
		neverIncluded:  conf.R.Filtering.NeverIncludedSubnets,
	}
}

// empty reports whether the filter would keep every record
func (fs filter) empty() bool {
	return len(fs.neverIncluded) == 0
}

// filterConnPair returns true if a record between src and dst should be dropped
func (fs filter) filterConnPair(src string, dst string) (ignore bool) {
	// parse src and dst IPs
	srcIP := net.ParseIP(src)
	dstIP := net.ParseIP(dst)

	// check if on always included list
	isSrcIncluded := fs.isAlwaysIncluded(srcIP)
	isDstIncluded := fs.isAlwaysIncluded(dstIP)

	// check if on never included list
	isSrcExcluded := fs.isNeverIncluded(srcIP)
	isDstExcluded := fs.isNeverIncluded(dstIP)

	// if a result is on both lists we don't ignore it
	if (isSrcIncluded && isSrcExcluded) || (isDstIncluded && isDstExcluded) {
		return false
	}

	return isSrcExcluded || isDstExcluded
}

// apply returns the records of rs which pass the filter
func (fs filter) apply(rs *packet.RecordSet) (*packet.RecordSet, int) {
	if fs.empty() {
		return rs, 0
	}
	kept := make([]packet.Record, 0, rs.Len())
	dropped := 0
	rs.Each(func(_ int, r *packet.Record) {
		if fs.filterConnPair(r.Source, r.Destination) {
			dropped++
			return
		}
		kept = append(kept, *r)
	})
	if dropped == 0 {
		return rs, 0
	}
	return rs.Derive(kept), dropped
}

// Check if a single IP address should always be included
func (fs filter) isAlwaysIncluded(ip net.IP) bool {
	if ip == nil {
		return false
	}
	return util.ContainsIP(fs.alwaysIncluded, ip)
}

// Check if a single IP address should never be included
func (fs filter) isNeverIncluded(ip net.IP) bool {
	if ip == nil {
		return false
	}
	return util.ContainsIP(fs.neverIncluded, ip)
}
