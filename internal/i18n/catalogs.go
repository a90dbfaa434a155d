package i18n

// BuiltinCatalogs returns the built-in English and French tables covering
// badge text, web proof cards, and user-facing error messages.
func BuiltinCatalogs() map[string]Table {
	return map[string]Table{
		"en": {
			"badge": Table{
				"confirmed":    "Confirmed by the web",
				"contradicted": "Contradicted by the web",
				"uncertain":    "Uncertain",
				"limited":      "Limited evidence",
			},
			"webproof": Table{
				"buckets": Table{
					"title": "Web sources",
					"text":  "Sources found on the web corroborate or contradict this content.",
				},
				"neutral": Table{
					"title": "Related sources",
					"text":  "Related sources were found but take no clear stance.",
				},
				"unavailable": Table{
					"title": "Web check unavailable",
					"text":  "No web sources could be consulted for this analysis.",
				},
			},
			"error": Table{
				"timeout":        "The analysis took too long. Please try again.",
				"network":        "A network error occurred. Please try again.",
				"not_configured": "The scoring engine is not configured.",
				"image_type":     "Unsupported image type. Use JPEG or PNG.",
				"image_size":     "Image is too large. Maximum size is 10 MB.",
			},
		},
		"fr": {
			"badge": Table{
				"confirmed":    "Confirmé par le web",
				"contradicted": "Contredit par le web",
				"uncertain":    "Incertain",
				"limited":      "Preuves limitées",
			},
			"webproof": Table{
				"buckets": Table{
					"title": "Sources web",
					"text":  "Des sources trouvées sur le web corroborent ou contredisent ce contenu.",
				},
				"neutral": Table{
					"title": "Sources associées",
					"text":  "Des sources associées ont été trouvées mais ne prennent pas clairement position.",
				},
				"unavailable": Table{
					"title": "Vérification web indisponible",
					"text":  "Aucune source web n'a pu être consultée pour cette analyse.",
				},
			},
			"error": Table{
				"timeout":        "L'analyse a pris trop de temps. Veuillez réessayer.",
				"network":        "Une erreur réseau s'est produite. Veuillez réessayer.",
				"not_configured": "Le moteur de score n'est pas configuré.",
				"image_type":     "Type d'image non pris en charge. Utilisez JPEG ou PNG.",
				"image_size":     "L'image est trop volumineuse. Taille maximale : 10 Mo.",
			},
		},
	}
}
