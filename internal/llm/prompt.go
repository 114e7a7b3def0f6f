package llm

import "strings"

// BuildLabelPrompt composes the French extraction instruction for label OCR
// text: every target field, its expected normalization, and the no-fabrication
// rule. The model must answer with a bare JSON object.
func BuildLabelPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Vous êtes un expert en étiquetage pour fruits et légumes. ")
	b.WriteString("À partir du texte OCR fourni, extrayez et normalisez les champs réglementaires demandés ci-dessous. ")
	b.WriteString("Corrigez les erreurs d'OCR (espaces, ponctuation, caractères confondus). ")
	b.WriteString("Déduire la valeur la plus probable si ce n'est pas trop extrapolé. ")
	b.WriteString("Si le texte OCR est vide, retournez un objet JSON avec les champs obligatoires et les valeurs null. ")
	b.WriteString("Retournez UNIQUEMENT un objet JSON valide (aucune explication). ")
	b.WriteString("Utilisez des noms de champs en anglais en minuscules (snake_case) et mettez null si absent. ")
	b.WriteString("Champs à trouver (mettre null si non trouvé) (snake_case) :\n")
	b.WriteString("- packer_name_address : identité de l'emballeur/expéditeur — nom et adresse complète (rue, ville, pays)\n")
	b.WriteString("- packed_for_packer_code : code de l'emballeur lié à la mention 'Emballé pour', parfois sur la même ligne que des abréviations comme 'Exp' pour expéditeur ou 'Emb' pour emballeur. Il peut être en fin de ligne tandis que le descriptif est en début de ligne (avec un grand espace entre les deux)\n")
	b.WriteString("- packer_iso_code : code d'identification officiel (une suite de 2 ou 3 lettres uniquement quand ce n'est pas suivi de chiffres ; ne pas confondre avec le code emballeur ; si vous ne trouvez rien, ne mettez rien)\n")
	b.WriteString("- packed_for_name_address : mention 'Emballé pour' — nom et adresse du vendeur\n")
	b.WriteString("- variety : variété ou type commercial ; si absente, mettre le nom du produit\n")
	b.WriteString("- origin : pays d'origine (obligatoire, le traduire en français)\n")
	b.WriteString("- product_name : nom du produit (espèce, obligatoire ; déduire si vous connaissez déjà la variété)\n")
	b.WriteString("- category : catégorie commerciale (soit 'EXTRA', soit un chiffre à convertir toujours en chiffre ROMAIN)\n")
	b.WriteString("- post_product_treatement : traitement post production (traitement chimique appliqué sur les fruits)\n")
	b.WriteString("- bio : true ou false selon si le produit est bio\n")
	b.WriteString("- calibre : calibre\n")
	b.WriteString("- piece_count : nombre de pièces\n")
	b.WriteString("- net_weight : poids net\n")
	b.WriteString("- prepacked : true si la mention de préemballage existe, sinon false\n")
	b.WriteString("- traceability_note : mention libre de traçabilité\n")
	b.WriteString("- traceability_code : code de traçabilité explicite (ex: 'Traçabilité : 1234')\n")
	b.WriteString("- additionals_informations : mentions complémentaires concernant le produit\n")
	b.WriteString("- lots : numéro(s) de lot\n")
	b.WriteString("- intended_use : mention spéciale ('destiné à la transformation' ou 'au don')\n")
	b.WriteString("- datage_code : code spécial composé d'une lettre pour le mois (A = janvier, B = février, etc.) et d'un nombre pour le jour du mois (K21 = 21 novembre)\n")
	b.WriteString("Texte OCR:\n")
	b.WriteString(text)
	b.WriteString("\n\nJSON:")
	return b.String()
}

// BuildDeliveryNotePrompt composes the delivery note (bon de livraison)
// instruction: root shipper/recipient fields plus the items array.
func BuildDeliveryNotePrompt(text string) string {
	var b strings.Builder
	b.WriteString("Vous êtes un expert en logistique et en réglementation fruits et légumes. ")
	b.WriteString("À partir du texte OCR d'un bon de livraison (BL), extrayez les informations suivantes ")
	b.WriteString("et retournez UNIQUEMENT un JSON valide (aucune explication) :\n\n")
	b.WriteString("Champs racine :\n")
	b.WriteString("- shipper_name_address : nom et adresse de l'expéditeur (ou fournisseur)\n")
	b.WriteString("- shipper_siret : SIRET/SIREN de l'expéditeur s'il est présent\n")
	b.WriteString("- delivery_note_number : numéro du bon de livraison / référence\n")
	b.WriteString("- delivery_date : date de livraison au format ISO si possible (YYYY-MM-DD) ou texte brut\n")
	b.WriteString("- recipient_name_address : nom et adresse du destinataire (le magasin/le client)\n")
	b.WriteString("- recipient_siret : SIRET/SIREN du destinataire s'il est présent\n")
	b.WriteString("- items : liste de lignes produits\n\n")
	b.WriteString("Chaque élément de items doit avoir :\n")
	b.WriteString("- product_name : nom du produit (ex: TOMATE, KIWI, POMME)\n")
	b.WriteString("- variety : variété ou type si présent\n")
	b.WriteString("- quantity : quantité attendue (nombre). Si '3 colis de 10', déduire 3 ou 30 selon ce qui est le plus logique\n")
	b.WriteString("- unit : uniquement des colis (trouver le nombre de colis par produit sur le BL)\n")
	b.WriteString("- lot : numéro de lot s'il est visible sur le BL\n")
	b.WriteString("- origin : pays d'origine si indiqué ou déductible sans trop extrapoler\n\n")
	b.WriteString("Règles :\n")
	b.WriteString("- Corrigez les fautes classiques d'OCR (espaces, ponctuation, majuscules).\n")
	b.WriteString("- Si un champ est introuvable, mettez-le à null.\n")
	b.WriteString("- S'il y a plusieurs lignes produits, remplissez correctement items[*].\n")
	b.WriteString("- Si le texte OCR est vide, retournez un JSON avec tous les champs racine à null et items: [].\n\n")
	b.WriteString("Texte OCR du BL :\n\"\"\"")
	b.WriteString(text)
	b.WriteString("\"\"\"\n\nJSON :")
	return b.String()
}
