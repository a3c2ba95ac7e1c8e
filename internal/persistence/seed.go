package persistence

import (
	"time"

	"labnotebook/pkg/domain"
)

func seedTime(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

// SeedRecords returns the sample collection installed on first run. Each call
// returns fresh values.
func SeedRecords() []domain.Record {
	return []domain.Record{
		{
			ID:           "EXP-2024-001",
			Title:        "Liquid-phase exfoliation of MoS2 nanosheets",
			Date:         "2024-01-15",
			Experimenter: "Zhang San",
			Type:         domain.TypeSynthesis,
			Purpose:      "Prepare single- or few-layer MoS2 nanosheets by liquid-phase exfoliation for subsequent electrochemical testing.",
			Conditions: domain.Conditions{
				Temperature: "Room temperature (25°C)",
				Duration:    "6 hours",
				Medium:      "NMP (N-methyl-2-pyrrolidone)",
				Instrument:  "Ultrasonic cleaner",
				Other:       "Power: 200W, frequency: 40kHz",
			},
			Steps: []string{
				"Weigh 0.5g MoS2 powder into a 100ml beaker",
				"Add 50ml NMP and stir to disperse",
				"Sonicate the beaker in the ultrasonic cleaner for 6 hours",
				"Centrifuge at 3000rpm for 30 minutes",
				"Collect the supernatant containing exfoliated MoS2 nanosheets",
				"Characterise exfoliation by UV-Vis and AFM",
			},
			Results:     "Obtained a stable MoS2 nanosheet dispersion of about 0.5mg/mL. UV-Vis shows characteristic absorption at 670nm and 610nm. AFM shows mostly 1-3 layers.",
			Conclusion:  "Six hours of sonication in NMP exfoliates MoS2 effectively; the product is suitable for device fabrication.",
			Notes:       "Try other solvent systems (e.g. isopropanol/water) to lower cost.",
			Attachments: []string{"uv-vis-spectrum.png", "afm-image.jpg", "process-log.xlsx"},
			CreatedAt:   seedTime("2024-01-15T10:30:00"),
			UpdatedAt:   seedTime("2024-01-15T16:45:00"),
		},
		{
			ID:           "EXP-2024-002",
			Title:        "J-V curve measurement of perovskite solar cells",
			Date:         "2024-01-18",
			Experimenter: "Li Si",
			Type:         domain.TypeTesting,
			Purpose:      "Measure the power conversion efficiency of the fabricated perovskite solar cells and assess device performance.",
			Conditions: domain.Conditions{
				Temperature: "25°C",
				Duration:    "30 minutes continuous",
				Medium:      domain.NotApplicable,
				Instrument:  "Solar simulator + source meter",
				Other:       "AM 1.5G filter, 100mW/cm²",
			},
			Steps: []string{
				"Mount the device in the test fixture with good contact",
				"Warm up the solar simulator for 15 minutes",
				"Calibrate intensity to 100mW/cm² with a reference silicon cell",
				"Sweep voltage from -0.2V to 1.2V at 10mV/s",
				"Record forward and reverse J-V curves",
				"Compute Voc, Jsc, FF and PCE",
			},
			Results:     "Forward: Voc=1.12V, Jsc=23.5mA/cm², FF=0.75, PCE=19.8%\nReverse: Voc=1.13V, Jsc=23.6mA/cm², FF=0.76, PCE=20.3%\nSlight hysteresis observed.",
			Conclusion:  "Device performance meets the target; low hysteresis indicates good interface quality.",
			Notes:       "Run encapsulated stability tests in the nitrogen glovebox.",
			Attachments: []string{"jv-curves.pdf", "device-photo-01.jpg"},
			CreatedAt:   seedTime("2024-01-18T14:20:00"),
			UpdatedAt:   seedTime("2024-01-18T15:30:00"),
		},
		{
			ID:           "EXP-2024-003",
			Title:        "DFT study of adsorption energies on graphene",
			Date:         "2024-01-20",
			Experimenter: "Wang Wu",
			Type:         domain.TypeSimulation,
			Purpose:      "Compute adsorption energies of molecules on graphene with density functional theory to guide experiment design.",
			Conditions: domain.Conditions{
				Temperature: "0K (theoretical)",
				Duration:    "About 48 hours compute time",
				Medium:      "Vacuum",
				Instrument:  "VASP 6.4",
				Other:       "PBE functional, 500eV cutoff, 3x3x1 k-points",
			},
			Steps: []string{
				"Build a 4x4 graphene supercell in Materials Studio",
				"Relax the graphene geometry to 1e-5 eV",
				"Place the adsorbate at candidate sites",
				"Relax to find the most stable configuration",
				"Compute E_ads = E_total - E_graphene - E_molecule",
				"Analyse charge density difference and DOS",
			},
			Results:     "Benzene adsorbs at -0.45 eV, in the physisorption range. The most stable site is parallel to the surface 3.4 Å above a ring centre. Charge transfer is below 0.05 e.",
			Conclusion:  "Graphene and benzene interact through weak van der Waals forces, consistent with experiment.",
			Notes:       "Repeat with a dispersion-corrected functional such as DFT-D3.",
			Attachments: []string{"adsorption-geometry.png", "dos.dat"},
			CreatedAt:   seedTime("2024-01-20T09:00:00"),
			UpdatedAt:   seedTime("2024-01-22T17:00:00"),
		},
		{
			ID:           "EXP-2024-004",
			Title:        "XRD phase analysis",
			Date:         "2024-01-22",
			Experimenter: "Zhang San",
			Type:         domain.TypeCharacterization,
			Purpose:      "Confirm crystal structure and purity of the synthesised MOF by XRD.",
			Conditions: domain.Conditions{
				Temperature: "Room temperature",
				Duration:    "About 30 minutes per sample",
				Medium:      domain.NotApplicable,
				Instrument:  "Bruker D8 Advance",
				Other:       "Cu Kα radiation (λ=1.5406Å), 2θ range 5-50°",
			},
			Steps: []string{
				"Grind the sample to a fine powder",
				"Spread the powder in the holder and flatten the surface",
				"Load the holder on the XRD stage",
				"Set step size 0.02° with 0.5s dwell",
				"Run the scan and collect the pattern",
				"Identify phases and refine in Jade",
			},
			Results:     "Main reflections at 2θ = 6.8°, 9.7°, 11.2° match the reference card, confirming the target MOF phase. Sharp peaks, good crystallinity, no impurity peaks.",
			Conclusion:  "The MOF is phase pure and well crystallised, consistent with the literature.",
			Notes:       "Sample is moisture sensitive; store in the vacuum oven after measurement.",
			Attachments: []string{"xrd-pattern.pdf", "refinement-report.docx"},
			CreatedAt:   seedTime("2024-01-22T10:00:00"),
			UpdatedAt:   seedTime("2024-01-22T14:30:00"),
		},
	}
}
