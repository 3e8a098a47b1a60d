// internal/bringup/plan.go
package bringup

import cfg "github.com/tamzrod/mvswitch/internal/config"

// PlanFrom converts a validated and normalized bring-up section.
func PlanFrom(b cfg.BringupConfig) Plan {
	p := Plan{
		MTU:      b.MTU,
		CPUPorts: append([]uint8(nil), b.CPUPorts...),
	}
	if b.PortsMask != nil {
		p.PortsMask = *b.PortsMask
	}
	for _, e := range b.VlanMap {
		p.VlanMap = append(p.VlanMap, VlanEntry{Port: e.Port, Mask: e.Mask})
	}
	return p
}
