package postgres

// SkillModel é o model GORM para habilidades
type SkillModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(100);uniqueIndex;not null"`
	CreatedAt int64  `gorm:"autoCreateTime"`
	UpdatedAt int64  `gorm:"autoUpdateTime"`
}

func (SkillModel) TableName() string {
	return "skills"
}

// ProfessionModel é o model GORM para profissões
type ProfessionModel struct {
	ID                 uint        `gorm:"primaryKey"`
	SkillID            *uint       `gorm:"index"`
	Skill              *SkillModel `gorm:"foreignKey:SkillID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Title              string      `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description        *string     `gorm:"type:text"`
	EducationLevel     string      `gorm:"type:varchar(100);not null;default:''"`
	Salary             int         `gorm:"not null;default:0"`
	Sector             string      `gorm:"type:varchar(100);not null;default:''"`
	ExperienceRequired int         `gorm:"not null;default:0"`
	CreatedAt          int64       `gorm:"autoCreateTime"`
	UpdatedAt          int64       `gorm:"autoUpdateTime"`
	DeletedAt          *int64      `gorm:"index"` // Soft delete, filtrado explicitamente
}

func (ProfessionModel) TableName() string {
	return "professions"
}

// UserModel é o model GORM para usuários
type UserModel struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"type:varchar(255);not null"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	Role         string `gorm:"type:varchar(50);not null;default:user;index"`
	CreatedAt    int64  `gorm:"autoCreateTime;index"`
	UpdatedAt    int64  `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string {
	return "users"
}

// UserProfileModel é o model GORM do perfil 1:1 do usuário
type UserProfileModel struct {
	ID           uint             `gorm:"primaryKey"`
	UserID       uint             `gorm:"uniqueIndex;not null"`
	User         *UserModel       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Bio          *string          `gorm:"type:text"`
	Twitter      *string          `gorm:"type:varchar(255)"`
	ProfessionID *uint            `gorm:"index"`
	Profession   *ProfessionModel `gorm:"foreignKey:ProfessionID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	CreatedAt    int64            `gorm:"autoCreateTime"`
	UpdatedAt    int64            `gorm:"autoUpdateTime"`
}

func (UserProfileModel) TableName() string {
	return "user_profiles"
}

// SkillUserModel é a tabela de junção usuário <-> habilidade
type SkillUserModel struct {
	UserID    uint        `gorm:"primaryKey;autoIncrement:false"`
	User      *UserModel  `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	SkillID   uint        `gorm:"primaryKey;autoIncrement:false;index"`
	Skill     *SkillModel `gorm:"foreignKey:SkillID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt int64       `gorm:"autoCreateTime"`
}

func (SkillUserModel) TableName() string {
	return "skill_user"
}

// AllModels lista os models na ordem exigida pelas chaves estrangeiras
func AllModels() []interface{} {
	return []interface{}{
		&SkillModel{},
		&ProfessionModel{},
		&UserModel{},
		&UserProfileModel{},
		&SkillUserModel{},
	}
}
