package biosabi

import (
	"encoding/binary"
	"fmt"
)

// VBESignature is the ASCII tag a valid VBE controller info block starts
// with (spec §4.1).
var VBESignature = [4]byte{'V', 'E', 'S', 'A'}

const (
	vbeFuncControllerInfo = 0x4F00
	vbeFuncModeInfo       = 0x4F01
	vbeOK                 = 0x004F
)

// VBEInfoSize is the fixed size of the VBE controller info block.
const VBEInfoSize = 512

// VBEModeInfoSize is the fixed size of one VBE mode info block.
const VBEModeInfoSize = 256

// VBEControllerInfo is the subset of the VBE info block this module
// needs: the signature and the mode list pointer/count are left to the
// raw buffer, since only the signature must be validated here (spec
// §4.1); mode enumeration is driven by pkg/vesa against a caller-supplied
// mode-number list from the buffer.
type VBEControllerInfo struct {
	Signature [4]byte
	Version   uint16
}

// VBEInfo issues the VBE controller-info query and validates the
// signature.
func VBEInfo(fw Firmware) (VBEControllerInfo, error) {
	buf := make([]byte, VBEInfoSize)
	req := RegSnapshot{AX: vbeFuncControllerInfo}
	resp := fw.Int10hVBE(req, buf)
	if resp.AX != vbeOK {
		return VBEControllerInfo{}, fmt.Errorf("biosabi: VBE controller info call failed, AX=0x%04x", resp.AX)
	}
	var info VBEControllerInfo
	copy(info.Signature[:], buf[0:4])
	info.Version = binary.LittleEndian.Uint16(buf[4:6])
	if info.Signature != VBESignature {
		return VBEControllerInfo{}, fmt.Errorf("biosabi: VBE signature mismatch: %q", info.Signature)
	}
	return info, nil
}

// VBEModeInfo is the subset of a VBE mode info block this module needs
// to drive pkg/vesa's mode selection (spec §4.4 scenario 4): resolution,
// color depth, and the linear framebuffer physical address.
type VBEModeInfo struct {
	Width, Height   uint16
	BitsPerPixel    uint8
	FramebufferPhys uint32
	Pitch           uint16
}

// VBEModeInfoQuery issues the per-mode VBE query for modeID.
func VBEModeInfoQuery(fw Firmware, modeID uint16) (VBEModeInfo, error) {
	buf := make([]byte, VBEModeInfoSize)
	req := RegSnapshot{AX: vbeFuncModeInfo, CX: modeID}
	resp := fw.Int10hVBE(req, buf)
	if resp.AX != vbeOK {
		return VBEModeInfo{}, fmt.Errorf("biosabi: VBE mode 0x%04x info call failed, AX=0x%04x", modeID, resp.AX)
	}
	return VBEModeInfo{
		Pitch:           binary.LittleEndian.Uint16(buf[16:18]),
		Width:           binary.LittleEndian.Uint16(buf[18:20]),
		Height:          binary.LittleEndian.Uint16(buf[20:22]),
		BitsPerPixel:    buf[25],
		FramebufferPhys: binary.LittleEndian.Uint32(buf[40:44]),
	}, nil
}
