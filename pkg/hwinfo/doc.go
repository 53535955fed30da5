// Package hwinfo probes read-only hardware and system facts for the
// hardwareinfo settings backend and the info command.
//
// Supported keys are model, chipset, cpu, memory, disk, gpu, architecture,
// kernel and distro. Values that cannot be determined are reported as
// NotAvailable ("N/A").
//
//	p := hwinfo.New()
//	cpu, err := p.Probe(ctx, hwinfo.KeyCPU)
//	// "4x ARM Cortex-A53"
//
// Snapshot runs every probe concurrently and returns the results in
// display order.
package hwinfo
