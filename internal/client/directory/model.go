package directory

// Logical field names shared by every backend.
const (
	FieldEmail          = "email"
	FieldCredentialHash = "credential_hash"
	FieldGivenName      = "given_name"
	FieldFamilyName     = "family_name"
	FieldPhone          = "phone"
)

// UserRecord is one member's directory entry.
type UserRecord struct {
	ID             string
	Email          string
	CredentialHash string
	GivenName      string
	FamilyName     string
	Phone          string
}

// Profile is a UserRecord without its credential hash.
type Profile struct {
	ID         string
	Email      string
	GivenName  string
	FamilyName string
	Phone      string
}

func (u UserRecord) Profile() Profile {
	return Profile{
		ID:         u.ID,
		Email:      u.Email,
		GivenName:  u.GivenName,
		FamilyName: u.FamilyName,
		Phone:      u.Phone,
	}
}

// Fields is a partial record as reported by the directory. A missing key
// means the directory did not report the field; it is not the same as "".
type Fields map[string]string

// Record assembles a UserRecord from a full set of fields.
func (f Fields) Record(id string) *UserRecord {
	return &UserRecord{
		ID:             id,
		Email:          f[FieldEmail],
		CredentialHash: f[FieldCredentialHash],
		GivenName:      f[FieldGivenName],
		FamilyName:     f[FieldFamilyName],
		Phone:          f[FieldPhone],
	}
}

// NewUser carries everything persisted when an account is created.
type NewUser struct {
	Email          string
	CredentialHash string
	GivenName      string
	FamilyName     string
	Phone          string
}

func (n NewUser) Fields() Fields {
	return Fields{
		FieldEmail:          n.Email,
		FieldCredentialHash: n.CredentialHash,
		FieldGivenName:      n.GivenName,
		FieldFamilyName:     n.FamilyName,
		FieldPhone:          n.Phone,
	}
}

// ProfileUpdate names the mutable profile fields to write.
type ProfileUpdate struct {
	GivenName  string
	FamilyName string
	Phone      string
}

func (p ProfileUpdate) Fields() Fields {
	return Fields{
		FieldGivenName:  p.GivenName,
		FieldFamilyName: p.FamilyName,
		FieldPhone:      p.Phone,
	}
}
