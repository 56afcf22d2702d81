package cocotangki

// Namespace and element names of the published cocotangki.xsd.
// They must match the authority's schema exactly.
const (
	Namespace = "cocotangki.xsd"

	TagDocument   = "DOCUMENT"
	TagCocotangki = "COCOTANGKI"
	TagHeader     = "HEADER"
	TagDetil      = "DETIL"
	TagTangki     = "TANGKI"

	// HEADER
	TagKdDok        = "KD_DOK"
	TagKdTps        = "KD_TPS"
	TagNmAngkut     = "NM_ANGKUT"
	TagNoVoyFlight  = "NO_VOY_FLIGHT"
	TagCallSign     = "CALL_SIGN"
	TagTglTiba      = "TGL_TIBA"
	TagKdGudang     = "KD_GUDANG"
	TagRefNumber    = "REF_NUMBER"
	TagKdAngkut     = "KD_ANGKUT"
	TagJamTiba      = "JAM_TIBA"
	TagKdPelMuat    = "KD_PEL_MUAT"
	TagKdPelTransit = "KD_PEL_TRANSIT"
	TagKdPelBongkar = "KD_PEL_BONGKAR"
	TagTglGateIn    = "TGL_GATE_IN"
	TagJamGateIn    = "JAM_GATE_IN"
	TagTglGateOut   = "TGL_GATE_OUT"
	TagJamGateOut   = "JAM_GATE_OUT"

	// TANGKI
	TagNoTangki         = "NO_TANGKI"
	TagJmlSatuan        = "JML_SATUAN"
	TagKdSatuan         = "KD_SATUAN"
	TagKapasitas        = "KAPASITAS"
	TagSeqAktivitas     = "SEQ_AKTIVITAS"
	TagKdDokInout       = "KD_DOK_INOUT"
	TagNoDokInout       = "NO_DOK_INOUT"
	TagTglDokInout      = "TGL_DOK_INOUT"
	TagKdSarAngkutInout = "KD_SAR_ANGKUT_INOUT"
	TagNoBlAwb          = "NO_BL_AWB"
	TagTglBlAwb         = "TGL_BL_AWB"
	TagJenisIsi         = "JENIS_ISI"
	TagConsignee        = "CONSIGNEE"
	TagKdKemasan        = "KD_KEMASAN"
	TagVolume           = "VOLUME"
	TagPanjang          = "PANJANG"
	TagLebar            = "LEBAR"
	TagTinggi           = "TINGGI"
	TagBerat            = "BERAT"
	TagBruto            = "BRUTO"
	TagNetto            = "NETTO"
	TagKeterangan       = "KETERANGAN"
)
