package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relunix/fatkernel/internal/dma"
	"github.com/relunix/fatkernel/internal/irq"
	"github.com/relunix/fatkernel/internal/mmioreg"
	"github.com/relunix/fatkernel/internal/pciconf"
	"github.com/relunix/fatkernel/internal/xhci"
)

// xhciCmd exercises PCI discovery and the bounded xHCI bring-up sequence
// against a simulated bus and BAR0, since a hosted Go process has no
// portable way to reach real 0xCF8/0xCFC config-space ports or a real
// MMIO mapping; a kernel build wires pciconf.ConfigSpace and
// mmioreg.Space to the real hardware at a lower layer and this same code
// runs unchanged against it.
var xhciCmd = &cobra.Command{
	Use:   "xhci",
	Short: "Run PCI discovery and bring-up against a simulated xHCI controller",
	RunE: func(cmd *cobra.Command, args []string) error {
		bus := pciconf.NewFakeBus()
		bus.AddXHCI(0, 4, 0, 0x8086, 0x1E31, 0xF0000000)

		dev, err := pciconf.FindXHCI(bus)
		if err != nil {
			return err
		}
		fmt.Printf("xhci: found controller %04x:%04x at %02x:%02x.%d, BAR0=%#08x\n",
			dev.VendorID, dev.DeviceID, dev.Bus, dev.Slot, dev.Fn, dev.BAR0)

		bar := mmioreg.New(xhci.NewSimulatedBAR(8, 4))
		alloc := dma.New(1 << 20)

		ctrl, err := xhci.Bringup(bar, alloc, log)
		if err != nil {
			log.Warnf("xhci: bring-up did not complete: %v", err)
			fmt.Println("xhci: bring-up timed out (expected without real hardware); PS/2 remains the input path")
			return nil
		}

		dispatcher := irq.New(&irq.FakePIC{}, log, nil, func(ascii byte) {
			fmt.Printf("key: %c\n", ascii)
		}, ctrl, nil)
		dispatcher.SetUSBKeyboardActive(true)
		dispatcher.Dispatch(11, irq.SourceXHCI)
		fmt.Println("xhci: bring-up complete")
		return nil
	},
}
