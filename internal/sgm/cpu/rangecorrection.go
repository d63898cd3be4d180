package cpu

// correctDisparityRange clamps any disparity below minDispScaled to
// invalidDisp, mutating disp in place. The comparison mirrors the GPU
// kernel's unsigned-to-int cast exactly, so this backend and the GPU
// backend invalidate precisely the same pixels given the same inputs.
func correctDisparityRange(disp []uint16, minDispScaled int, invalidDisp uint16) {
	for i, v := range disp {
		if int(v) < minDispScaled {
			disp[i] = invalidDisp
		}
	}
}
