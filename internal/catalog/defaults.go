package catalog

import (
	"fmt"

	"github.com/litescript/ls-skylens/internal/astro"
)

// defaultEntry is the compact source form of the embedded catalog. Positions
// are stored as RA/Dec (J2000) and converted to unit-sphere Cartesian once
// when the default catalog is built.
type defaultEntry struct {
	id     int
	name   string
	raDeg  float64
	decDeg float64
	mag    float64
}

// defaultStars contains bright stars visible from various latitudes plus the
// dimmer members the constellation figures reference.
// Data sourced from Yale Bright Star Catalog and IAU star names.
var defaultStars = []defaultEntry{
	// Magnitude < 0 (exceptionally bright)
	{1, "Sirius", 101.287, -16.716, -1.46},
	{2, "Canopus", 95.988, -52.696, -0.74},
	{3, "Arcturus", 213.915, 19.182, -0.05},
	{4, "Vega", 279.235, 38.784, 0.03},
	{5, "Capella", 79.172, 45.998, 0.08},
	{6, "Rigel", 78.634, -8.202, 0.13},
	{7, "Procyon", 114.826, 5.225, 0.34},
	{8, "Achernar", 24.429, -57.237, 0.46},
	{9, "Betelgeuse", 88.793, 7.407, 0.50},
	{10, "Hadar", 210.956, -60.373, 0.61},

	// Magnitude 0.5-1.0
	{11, "Altair", 297.696, 8.868, 0.76},
	{12, "Acrux", 186.650, -63.099, 0.76},
	{13, "Aldebaran", 68.980, 16.509, 0.85},
	{14, "Antares", 247.352, -26.432, 0.96},
	{15, "Spica", 201.298, -11.161, 0.97},
	{16, "Pollux", 116.329, 28.026, 1.14},

	// Magnitude 1.0-1.5
	{17, "Fomalhaut", 344.413, -29.622, 1.16},
	{18, "Deneb", 310.358, 45.280, 1.25},
	{19, "Mimosa", 191.930, -59.689, 1.25},
	{20, "Regulus", 152.093, 11.967, 1.35},
	{21, "Adhara", 104.656, -28.972, 1.50},
	{22, "Castor", 113.650, 31.889, 1.58},

	// Magnitude 1.5-2.0
	{23, "Gacrux", 187.791, -57.113, 1.63},
	{24, "Shaula", 263.402, -37.104, 1.63},
	{25, "Bellatrix", 81.283, 6.350, 1.64},
	{26, "Elnath", 81.573, 28.608, 1.65},
	{27, "Alnilam", 84.053, -1.202, 1.69},
	{28, "Alnitak", 85.190, -1.943, 1.77},
	{29, "Alioth", 193.507, 55.960, 1.77},
	{30, "Dubhe", 165.932, 61.751, 1.79},
	{31, "Mirfak", 51.081, 49.861, 1.79},
	{32, "Wezen", 107.098, -26.393, 1.84},
	{33, "Sargas", 264.330, -42.998, 1.87},
	{34, "Kaus Australis", 276.043, -34.384, 1.85},
	{35, "Alkaid", 206.885, 49.313, 1.86},
	{36, "Menkalinan", 89.882, 44.948, 1.90},
	{37, "Alhena", 99.428, 16.399, 1.93},
	{38, "Mirzam", 95.675, -17.956, 1.98},
	{39, "Polaris", 37.954, 89.264, 2.02},
	{40, "Alphard", 141.897, -8.659, 2.00},

	// Magnitude 2.0-2.5
	{41, "Hamal", 31.793, 23.463, 2.00},
	{42, "Algieba", 146.463, 19.842, 2.08},
	{43, "Diphda", 10.897, -17.987, 2.02},
	{44, "Nunki", 283.816, -26.297, 2.02},
	{45, "Mizar", 200.981, 54.925, 2.04},
	{46, "Alpheratz", 2.097, 29.091, 2.06},
	{47, "Saiph", 86.939, -9.670, 2.09},
	{48, "Mirach", 17.433, 35.621, 2.05},
	{49, "Kochab", 222.676, 74.156, 2.08},
	{50, "Rasalhague", 263.734, 12.560, 2.08},
	{51, "Algol", 47.042, 40.957, 2.12},
	{52, "Denebola", 177.265, 14.572, 2.13},
	{53, "Naos", 120.896, -40.003, 2.25},
	{54, "Suhail", 136.999, -43.433, 2.21},
	{55, "Alphecca", 233.672, 26.715, 2.23},
	{56, "Mintaka", 83.002, -0.299, 2.23},
	{57, "Sadr", 305.557, 40.257, 2.23},
	{58, "Eltanin", 269.152, 51.489, 2.23},
	{59, "Schedar", 10.127, 56.537, 2.23},
	{60, "Caph", 2.295, 59.150, 2.27},
	{61, "Dschubba", 240.083, -22.622, 2.32},
	{62, "Larawag", 254.655, -34.293, 2.29},
	{63, "Merak", 165.460, 56.382, 2.37},
	{64, "Izar", 221.247, 27.074, 2.37},

	// Magnitude 2.5-3.0
	{65, "Enif", 326.046, 9.875, 2.39},
	{66, "Ankaa", 6.571, -42.306, 2.38},
	{67, "Phecda", 178.458, 53.695, 2.44},
	{68, "Sabik", 257.595, -15.725, 2.43},
	{69, "Scheat", 345.944, 28.083, 2.42},
	{70, "Alderamin", 319.645, 62.586, 2.51},
	{71, "Aludra", 111.024, -29.303, 2.45},
	{72, "Girtab", 265.622, -39.030, 2.41},
	{73, "Navi", 14.177, 60.717, 2.47},
	{74, "Markab", 346.190, 15.205, 2.49},
	{75, "Aljanah", 311.553, 33.970, 2.48},
	{76, "Acrab", 241.359, -19.805, 2.62},
	{77, "Albireo", 292.680, 27.960, 3.18},
	{78, "Tarazed", 296.565, 10.613, 2.72},
	{79, "Furud", 95.078, -30.063, 3.96},
	{80, "Alcyone", 56.871, 24.105, 2.87},
	{81, "Pherkad", 230.182, 71.834, 3.00},

	// Magnitude 3.0-4.5 (figure members and background density)
	{82, "Alshain", 298.828, 6.407, 3.71},
	{83, "Yildun", 263.054, 86.586, 4.36},
	{84, "Megrez", 183.857, 57.033, 3.31},
	{85, "Tejat", 95.740, 22.513, 2.88},
	{86, "Mebsuta", 100.983, 25.131, 3.06},
	{87, "Propus", 93.719, 22.506, 3.28},
	{88, "Wasat", 110.031, 21.982, 3.53},
	{89, "Adhafera", 154.173, 23.417, 3.43},
	{90, "Rasalas", 146.463, 26.007, 3.88},
	{91, "Chertan", 168.560, 15.430, 3.33},
	{92, "Zosma", 168.527, 20.524, 2.56},
	{93, "Subra", 148.191, 9.893, 3.52},
	{94, "Alterf", 139.711, 22.968, 4.31},
	{95, "Gomeisa", 111.788, 8.289, 2.90},
	{96, "Nihal", 82.061, -20.759, 2.84},
	{97, "Arneb", 83.183, -17.822, 2.58},
	{98, "Cursa", 76.963, -5.086, 2.79},
	{99, "Unukalhai", 236.067, 6.426, 2.65},
	{100, "Sheratan", 28.660, 20.808, 2.64},
	{101, "Thuban", 211.097, 64.376, 3.65},
	{102, "Rastaban", 262.608, 52.301, 2.79},
	{103, "Cor Caroli", 194.007, 38.318, 2.81},
	{104, "Vindemiatrix", 195.544, 10.959, 2.83},
	{105, "Porrima", 190.415, -1.449, 2.74},
	{106, "Zubenelgenubi", 222.720, -16.042, 2.75},
	{107, "Zubeneschamali", 229.252, -9.383, 2.61},
	{108, "Sadalmelik", 331.446, -0.320, 2.96},
	{109, "Sadalsuud", 322.890, -5.571, 2.91},
	{110, "Wazn", 90.399, -35.768, 3.85},
}

// defaultFigures defines the stick figures by star name; names resolve to ids
// when the default catalog is built, so a typo fails fast in tests.
var defaultFigures = []struct {
	name  string
	pairs [][2]string
}{
	{"Orion", [][2]string{
		{"Betelgeuse", "Bellatrix"},
		{"Bellatrix", "Mintaka"},
		{"Mintaka", "Alnilam"},
		{"Alnilam", "Alnitak"},
		{"Alnitak", "Betelgeuse"},
		{"Mintaka", "Rigel"},
		{"Alnitak", "Saiph"},
		{"Rigel", "Saiph"},
	}},
	{"Ursa Major", [][2]string{
		{"Dubhe", "Merak"},
		{"Merak", "Phecda"},
		{"Phecda", "Megrez"},
		{"Megrez", "Dubhe"},
		{"Megrez", "Alioth"},
		{"Alioth", "Mizar"},
		{"Mizar", "Alkaid"},
	}},
	{"Ursa Minor", [][2]string{
		{"Polaris", "Yildun"},
		{"Yildun", "Kochab"},
		{"Kochab", "Pherkad"},
	}},
	{"Cassiopeia", [][2]string{
		{"Caph", "Schedar"},
		{"Schedar", "Navi"},
	}},
	{"Scorpius", [][2]string{
		{"Acrab", "Dschubba"},
		{"Dschubba", "Antares"},
		{"Antares", "Larawag"},
		{"Larawag", "Sargas"},
		{"Sargas", "Girtab"},
		{"Girtab", "Shaula"},
	}},
	{"Cygnus", [][2]string{
		{"Deneb", "Sadr"},
		{"Sadr", "Albireo"},
		{"Sadr", "Aljanah"},
	}},
	{"Leo", [][2]string{
		{"Regulus", "Algieba"},
		{"Algieba", "Adhafera"},
		{"Adhafera", "Rasalas"},
		{"Rasalas", "Alterf"},
		{"Regulus", "Subra"},
		{"Algieba", "Zosma"},
		{"Zosma", "Denebola"},
		{"Denebola", "Chertan"},
		{"Chertan", "Regulus"},
	}},
	{"Gemini", [][2]string{
		{"Castor", "Mebsuta"},
		{"Mebsuta", "Tejat"},
		{"Tejat", "Propus"},
		{"Pollux", "Wasat"},
		{"Wasat", "Alhena"},
	}},
	{"Taurus", [][2]string{
		{"Aldebaran", "Elnath"},
		{"Aldebaran", "Alcyone"},
	}},
	{"Canis Major", [][2]string{
		{"Sirius", "Mirzam"},
		{"Sirius", "Wezen"},
		{"Wezen", "Adhara"},
		{"Wezen", "Aludra"},
		{"Adhara", "Furud"},
	}},
	{"Aquila", [][2]string{
		{"Tarazed", "Altair"},
		{"Altair", "Alshain"},
	}},
	{"Crux", [][2]string{
		{"Acrux", "Gacrux"},
		{"Mimosa", "Gacrux"},
	}},
	{"Summer Triangle", [][2]string{
		{"Vega", "Deneb"},
		{"Deneb", "Altair"},
		{"Altair", "Vega"},
	}},
	{"Boötes", [][2]string{
		{"Arcturus", "Izar"},
		{"Arcturus", "Alphecca"},
	}},
}

// Default builds the embedded catalog. Cartesian positions are computed here
// once; they never depend on observer state.
func Default() *Catalog {
	stars := make([]Star, len(defaultStars))
	idByName := make(map[string]int, len(defaultStars))
	for i, e := range defaultStars {
		stars[i] = Star{
			ID:   e.id,
			Name: e.name,
			Mag:  e.mag,
			Pos:  astro.CelestialToCartesian(e.raDeg/15, e.decDeg, 1),
		}
		idByName[e.name] = e.id
	}

	cons := make([]Constellation, len(defaultFigures))
	for i, f := range defaultFigures {
		lines := make([]Line, len(f.pairs))
		for j, p := range f.pairs {
			from, ok := idByName[p[0]]
			if !ok {
				panic(fmt.Sprintf("default catalog: figure %q references unknown star %q", f.name, p[0]))
			}
			to, ok := idByName[p[1]]
			if !ok {
				panic(fmt.Sprintf("default catalog: figure %q references unknown star %q", f.name, p[1]))
			}
			lines[j] = Line{From: from, To: to}
		}
		cons[i] = Constellation{Name: f.name, Lines: lines}
	}

	cat, err := build(stars, cons)
	if err != nil {
		panic(fmt.Sprintf("default catalog invalid: %v", err))
	}
	return cat
}
