package organizationalunit

// ResourceModel is the declarative representation of one organizational
// unit. ResourceID and ARN are assigned by the Organizations API on create;
// they are never supplied by the caller for CREATE and are required for
// DELETE. An empty ParentOU means the unit attaches to the hierarchy root.
type ResourceModel struct {
	OrganizationalUnitName string `json:"organizationalUnitName"`
	ParentOU               string `json:"parentOU,omitempty"`
	ResourceID             string `json:"resourceId,omitempty"`
	ARN                    string `json:"arn,omitempty"`
}
