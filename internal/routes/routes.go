package routes

const (
	// Health
	Health = "/health"

	// ───────────────────────────────
	// Owner API (Relative Paths)
	// ───────────────────────────────
	OwnerBase         = "/api/v1" // Base prefix for the authenticated sub-router
	Properties        = "/properties"
	Property          = "/properties/{propertyId}"
	PropertyAssets    = "/properties/{propertyId}/assets"
	PropertyDocuments = "/properties/{propertyId}/documents"
	Asset             = "/assets/{assetId}"
	AssetEvents       = "/assets/{assetId}/events"

	Identifier       = "/identifier/{propertyId}"
	IdentifierRevoke = "/identifier/{propertyId}/revoke"

	// ───────────────────────────────
	// Public resolution (Relative Paths)
	// ───────────────────────────────
	PublicBase     = "/api/v1/public" // Base prefix for the anonymous sub-router
	PublicProperty = "/property/{token}"
	PublicAsset    = "/asset/{assetId}"
)
