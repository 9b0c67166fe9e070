package cripta

var EP = []int{4, 1, 2, 3, 2, 3, 4, 1}

var P4 = []int{2, 4, 3, 1}

var S0 = [4][4]uint8{
	{1, 0, 3, 2},
	{3, 2, 1, 0},
	{0, 2, 1, 3},
	{3, 1, 3, 2},
}

var S1 = [4][4]uint8{
	{0, 1, 2, 3},
	{2, 0, 1, 3},
	{3, 0, 1, 0},
	{2, 1, 0, 3},
}

// SDESRoundFunction is F(R, K): expansion, key mixing, two S-boxes and P4.
// Input and output are 4-bit halves.
type SDESRoundFunction struct{}

func (srf *SDESRoundFunction) Apply(rightHalf uint8, roundKey uint8) uint8 {
	expanded := uint8(PermuteBits(uint16(rightHalf&0x0F), EP, 4))
	mixed := expanded ^ roundKey

	s0 := sboxLookup(&S0, mixed>>4)
	s1 := sboxLookup(&S1, mixed&0x0F)

	return uint8(PermuteBits(uint16(s0<<2|s1), P4, 4))
}

// sboxLookup takes the row from bits 1 and 4 of the nibble and the column from bits 2 and 3.
func sboxLookup(box *[4][4]uint8, nibble uint8) uint8 {
	row := (nibble&0x8)>>2 | nibble&0x1
	col := (nibble >> 1) & 0x3
	return box[row][col]
}
