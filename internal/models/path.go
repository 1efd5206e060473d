package models

import "strings"

// ModelPath строит путь модели из идентификаторов модели и листа
func ModelPath(modelID, sheetID string) string {
	return modelID + "/" + sheetID
}

// SplitModelPath разбирает путь модели "modelID/sheetID".
// Для пути без разделителя sheetID будет пустым.
func SplitModelPath(path string) (modelID, sheetID string) {
	modelID, sheetID, _ = strings.Cut(path, "/")
	return modelID, sheetID
}
