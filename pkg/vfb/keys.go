package vfb

import "strconv"

// Key identifies the type of a directory entry. It is the on-disk key with
// the extended-size flag cleared, so it always fits in 15 bits.
type Key uint16

// Well-known entry keys.
const (
	KeyEOF              Key = 5
	KeyEncoding         Key = 1500
	KeyEncodingDefault  Key = 1501
	KeyMasterCount      Key = 1503
	KeyFontName         Key = 1026
	KeyFamilyName       Key = 1027
	KeyUPM              Key = 1135
	KeyTrueTypeTable    Key = 2014
	KeyFeatures         Key = 1276
	KeyGlyph            Key = 2001
	KeyGlyphImage       Key = 2007
	KeyGlyphLinks       Key = 2008
	KeyGlyphBitmaps     Key = 2013
	KeyGlyphHinting     Key = 2010
	KeyGlyphUnicodes    Key = 1250
	KeyPostScriptHints  Key = 1093
	KeyPostScriptInfo   Key = 1536
	KeyMasterName       Key = 1504
	KeyMasterLocation   Key = 1505
	KeyAxisCount        Key = 1513
	KeyGlobalGuides     Key = 1294
	KeyGlobalMask       Key = 1295
	KeyTrueTypeStems    Key = 1269
	KeyTrueTypeZones    Key = 1255
	KeyFontNames        Key = 1138
	KeyOpenTypeClass    Key = 1277
	KeyExportOptions    Key = 1744
	KeyOpenTypeExport   Key = 1743
	KeyMappingMode      Key = 1742
	KeyFileEndSecondary Key = 2
)

var keyNames = map[Key]string{
	KeyEOF:             "EOF",
	KeyEncoding:        "Encoding",
	KeyEncodingDefault: "Encoding Default",
	KeyMasterCount:     "Master Count",
	1517:               "weight_vector",
	1044:               "unique_id",
	1046:               "version",
	1038:               "notice",
	1025:               "full_name",
	KeyFontName:        "font_name",
	KeyFamilyName:      "family_name",
	1024:               "pref_family_name",
	1056:               "menu_name",
	1092:               "apple_name",
	1028:               "weight",
	1065:               "width",
	1069:               "License",
	1070:               "License URL",
	1037:               "copyright",
	1061:               "trademark",
	1062:               "designer",
	1063:               "designer_url",
	1064:               "vendor_url",
	1039:               "source",
	1034:               "is_fixed_pitch",
	1048:               "weight_code",
	1029:               "italic_angle",
	1047:               "slant_angle",
	1030:               "underline_position",
	1031:               "underline_thickness",
	1054:               "ms_charset",
	1118:               "panose",
	1128:               "tt_version",
	1129:               "tt_u_id",
	1127:               "style_name",
	1137:               "pref_style_name",
	1139:               "mac_compatible",
	1121:               "vendor",
	1133:               "xuid",
	1134:               "xuid_num",
	1132:               "year",
	1130:               "version_major",
	1131:               "version_minor",
	KeyUPM:             "upm",
	1090:               "fond_id",
	KeyPostScriptHints: "PostScript Hinting Options",
	1530:               "blue_values_num",
	1531:               "other_blues_num",
	1532:               "family_blues_num",
	1533:               "family_other_blues_num",
	1534:               "stem_snap_h_num",
	1535:               "stem_snap_v_num",
	1267:               "font_style",
	1057:               "pcl_id",
	1058:               "vp_id",
	1060:               "ms_id",
	1059:               "pcl_chars_set",
	1261:               "cvt",
	1262:               "prep",
	1263:               "fpgm",
	1265:               "gasp",
	1264:               "ttinfo",
	1271:               "vdmx",
	1270:               "hhea_line_gap",
	1278:               "hhea_ascender",
	1279:               "hhea_descender",
	1266:               "TrueType Stem PPEMs 2 And 3",
	1268:               "TrueType Stem PPEMs",
	KeyTrueTypeStems:   "TrueType Stems",
	1524:               "TrueType Stem PPEMs 1",
	KeyTrueTypeZones:   "TrueType Zones",
	2021:               "unicoderanges",
	1272:               "stemsnaplimit",
	1274:               "zoneppm",
	1275:               "codeppm",
	1273:               "TrueType Zone Deltas",
	KeyFontNames:       "fontnames",
	1141:               "Custom CMAPs",
	1136:               "PCLT Table",
	2022:               "Export PCLT Table",
	2025:               "note",
	2016:               "customdata",
	2024:               "OpenType Metrics Class Flags",
	2026:               "OpenType Kerning Class Flags",
	KeyTrueTypeTable:   "TrueTypeTable",
	KeyFeatures:        "features",
	KeyOpenTypeClass:   "OpenType Class",
	KeyAxisCount:       "Axis Count",
	1514:               "Axis Name",
	1523:               "Anisotropic Interpolation Mappings",
	1515:               "Axis Mappings Count",
	1516:               "Axis Mappings",
	KeyMasterName:      "Master Name",
	KeyMasterLocation:  "Master Location",
	1247:               "Primary Instance Locations",
	1254:               "Primary Instances",
	KeyPostScriptInfo:  "PostScript Info",
	KeyGlobalGuides:    "Global Guides",
	1296:               "Global Guide Properties",
	KeyGlobalMask:      "Global Mask",
	1066:               "default_character",
	KeyGlyph:           "Glyph",
	KeyGlyphLinks:      "Links",
	KeyGlyphImage:      "image",
	KeyGlyphBitmaps:    "Glyph Bitmaps",
	2019:               "Glyph Sketch",
	KeyGlyphHinting:    "Glyph Hinting Options",
	2009:               "mask",
	2011:               "mask.metrics",
	2028:               "mask.metrics_mm",
	2027:               "Glyph Origin",
	KeyGlyphUnicodes:   "unicodes",
	1253:               "Glyph Unicode Non-BMP",
	2012:               "mark",
	2015:               "glyph.customdata",
	2017:               "glyph.note",
	2018:               "Glyph GDEF Data",
	2020:               "Glyph Anchors Supplemental",
	2029:               "Glyph Anchors MM",
	2031:               "Glyph Guide Properties",
	KeyOpenTypeExport:  "OpenType Export Options",
	KeyExportOptions:   "Export Options",
	KeyMappingMode:     "Mapping Mode",
}

// Name returns the well-known name of k and whether it has one.
func (k Key) Name() (string, bool) {
	name, ok := keyNames[k]
	return name, ok
}

// String returns the well-known name of k, or its decimal value.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return strconv.Itoa(int(k))
}

// ParseKey accepts either a decimal key or a well-known name.
func ParseKey(s string) (Key, bool) {
	if n, err := strconv.ParseUint(s, 10, 15); err == nil {
		return Key(n), true
	}
	for k, name := range keyNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}
