package mapdata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"FortressVox/shared/logger"
	"FortressVox/shared/pkg/dfproto"
)

// MaterialModel armazena um material conhecido de um mundo.
type MaterialModel struct {
	Mundo    string `gorm:"primaryKey"`
	MatType  int32  `gorm:"primaryKey;autoIncrement:false"`
	MatIndex int32  `gorm:"primaryKey;autoIncrement:false"`
	Token    string
	Nome     string
	R, G, B  uint8
}

// ExportacaoModel é uma linha do histórico de exportações.
type ExportacaoModel struct {
	ID        uint   `gorm:"primaryKey"`
	Mundo     string `gorm:"index"`
	Inferior  int32
	Superior  int32
	Arquivo   string
	Voxels    int
	Modelos   int
	Cores     int
	Avisos    int
	Duracao   time.Duration
	CreatedAt time.Time
}

// WorldMetadata armazena informações globais por chave.
type WorldMetadata struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

const CurrentFormatVersion = 1

// Cache é o banco SQLite local com materiais e histórico de exportações.
type Cache struct {
	DB *gorm.DB
}

// AbrirCache abre (ou cria) o banco e roda as migrações.
func AbrirCache(caminho string) (*Cache, error) {
	if caminho != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(caminho), 0755); err != nil {
			return nil, err
		}
	}

	// Logger silencioso: erros voltam como valores
	db, err := gorm.Open(sqlite.Open(caminho), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no SQLite: %w", err)
	}

	if err := db.AutoMigrate(&MaterialModel{}, &ExportacaoModel{}, &WorldMetadata{}); err != nil {
		return nil, fmt.Errorf("falha na migração do banco: %w", err)
	}
	db.Save(&WorldMetadata{Key: "FormatVersion", Value: fmt.Sprint(CurrentFormatVersion)})

	logger.Com("cache").WithField("caminho", caminho).Debug("banco de dados SQLite aberto")
	return &Cache{DB: db}, nil
}

// Close fecha a conexão.
func (c *Cache) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SalvarMateriais substitui o catálogo de materiais de um mundo.
func (c *Cache) SalvarMateriais(mundo string, m *Materiais) error {
	defs := m.Todos()
	if len(defs) == 0 {
		return nil
	}
	models := make([]MaterialModel, 0, len(defs))
	for _, d := range defs {
		models = append(models, MaterialModel{
			Mundo:    mundo,
			MatType:  d.Par.MatType,
			MatIndex: d.Par.MatIndex,
			Token:    d.Token,
			Nome:     d.Nome,
			R:        d.R,
			G:        d.G,
			B:        d.B,
		})
	}
	return c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("mundo = ?", mundo).Delete(&MaterialModel{}).Error; err != nil {
			return err
		}
		return tx.CreateInBatches(models, 500).Error
	})
}

// CarregarMateriais devolve o catálogo salvo de um mundo.
func (c *Cache) CarregarMateriais(mundo string) (*Materiais, error) {
	var models []MaterialModel
	if err := c.DB.Where("mundo = ?", mundo).Find(&models).Error; err != nil {
		return nil, err
	}
	defs := make([]DefinicaoMaterial, 0, len(models))
	for _, m := range models {
		defs = append(defs, DefinicaoMaterial{
			Par:   dfproto.MatPair{MatType: m.MatType, MatIndex: m.MatIndex},
			Token: m.Token,
			Nome:  m.Nome,
			R:     m.R,
			G:     m.G,
			B:     m.B,
		})
	}
	return NovoMateriais(defs), nil
}

// RegistrarExportacao acrescenta uma linha ao histórico.
func (c *Cache) RegistrarExportacao(e *ExportacaoModel) error {
	return c.DB.Create(e).Error
}

// Historico lista as últimas exportações de um mundo, da mais recente para a mais antiga.
func (c *Cache) Historico(mundo string, limite int) ([]ExportacaoModel, error) {
	var res []ExportacaoModel
	q := c.DB.Where("mundo = ?", mundo).Order("id desc")
	if limite > 0 {
		q = q.Limit(limite)
	}
	if err := q.Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}

// Metadado lê um valor global; ok=false se a chave não existe.
func (c *Cache) Metadado(chave string) (string, bool, error) {
	var m WorldMetadata
	err := c.DB.First(&m, "key = ?", chave).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return m.Value, true, nil
}
