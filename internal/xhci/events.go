package xhci

// AttachKeyboard installs kb as the controller's keyboard endpoint so
// PumpEvents can route Transfer Event TRBs to it.
func (c *Controller) AttachKeyboard(kb *Keyboard) { c.kb = kb }

// PumpEvents drains every ready TRB off the event ring, per spec.md
// §4.4.3: it stops as soon as the TRB at the dequeue index has a cycle
// bit that doesn't match the expected value. A TRB of unknown type is
// skipped; cycle-bit mismatch ends the pump with no corrective action,
// per spec.md §7.
func (c *Controller) PumpEvents() error {
	for c.evRing.Ready() {
		trb := c.evRing.Peek()
		switch trb.Type() {
		case trbTypeTransferEvent:
			if c.kb != nil {
				c.kb.handleTransferEvent(trb)
			}
		case trbTypeCommandComplete:
			if trb.CompletionCode() == 1 {
				c.log.Debug("xhci: command completed successfully")
			} else {
				c.log.Warnf("xhci: command completion code %d", trb.CompletionCode())
			}
		}
		c.evRing.Advance()
	}
	return nil
}

// HandleIRQ is the IRQ top-half for the xHCI interrupt line, spec.md
// §4.4.5: it reads USBSTS, runs the event pump on EINT, reports and
// clears HSE, clears PCD without further action (port-change processing
// is out of scope), and clears every handled status bit by writing it
// back (xHCI status bits are write-1-to-clear).
func (c *Controller) HandleIRQ() {
	status := c.regs.usbsts()

	if status&usbstsEINT != 0 {
		if err := c.PumpEvents(); err != nil {
			c.log.Warnf("xhci: event pump: %v", err)
		}
		c.regs.op.Write32(opOffUSBSTS, usbstsEINT)
	}
	if status&usbstsHSE != 0 {
		c.log.Error("xhci: host system error reported")
		c.regs.op.Write32(opOffUSBSTS, usbstsHSE)
	}
	if status&usbstsPCD != 0 {
		c.regs.op.Write32(opOffUSBSTS, usbstsPCD)
	}
}
