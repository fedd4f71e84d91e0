package patients

func fixturePatients() []Patient {
	return []Patient{
		{
			ID:   "A",
			Name: "Anna Malá",
			Events: []Event{
				{Day: 30, Source: SourceSpa, Type: ServiceProcedure, Label: "Musculoskeletal rehabilitation"},
				{Day: 0, Source: SourceHospitalization, Type: ServiceProcedure, Label: "Hip replacement"},
				{Day: 12, Source: SourceCare, Type: ServiceProcedure, Label: "Physiotherapy"},
			},
			EarlyWarnings: []EarlyWarning{
				{DRG: DRG{Code: "06-F03", Label: "Intestinal obstruction"}, Probability: 12, ETA: 7},
				{DRG: DRG{Code: "21-X03", Label: "Toxic effects"}, Probability: 24, ETA: 21},
			},
		},
		{
			ID:   "B",
			Name: "Bohumil Hrabal",
			Events: []Event{
				{Day: 0, Source: SourceHospitalization, Type: ServiceProcedure, Label: "Hip replacement"},
				{Day: 10, Source: SourceCare, Type: ServiceProcedure, Label: "Physiotherapy"},
				{Day: 45, Source: SourceHospitalization, Type: ServiceProcedure, Label: "Readmission"},
				{Day: 80, Source: SourceCare, Type: ServiceProcedure, Label: "Palliative care"},
				{Day: 95, Source: SourceCare, Type: ServiceDeath, Label: "Death"},
			},
		},
		{
			ID:   "C",
			Name: "Cyril Bém",
			Events: []Event{
				{Day: 0, Source: SourceHospitalization, Type: ServiceProcedure, Label: "Hip replacement"},
				{Day: 5, Source: SourceCare, Type: ServiceTransport, Label: "Ambulance transport"},
				{Day: 6, Source: SourceCare, Type: ServiceProcedure, Label: "Head CT"},
				{Day: 30, Source: SourceSpa, Type: ServiceProcedure, Label: "Spa stay"},
			},
		},
		{
			ID:     "D",
			Name:   "Dana Krátká",
			Events: []Event{{Day: 0, Source: SourceHospitalization, Type: ServiceProcedure, Label: "Hip replacement"}},
		},
		{
			ID:   "E",
			Name: "Emil Zátopek",
			Events: []Event{
				{Day: 0, Source: SourceCare, Type: ServiceMedication, Label: "Insulin"},
				{Day: 3, Source: SourceCare, Type: ServiceHealthTool, Label: "Glucose meter"},
				{Day: 9, Source: SourceCare, Type: ServiceProcedure, Label: "Eye exam"},
			},
		},
	}
}
