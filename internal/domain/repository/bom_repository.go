package repository

import "github.com/lataller/inventario-api/internal/domain/entity"

// BOMRepository define el puerto de lectura de la lista de materiales.
// La receta es estática: este núcleo nunca la modifica.
type BOMRepository interface {
	ListByModel(modelID string) ([]*entity.BOMLine, error)
}
