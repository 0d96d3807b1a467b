package valueobjects

import (
	"fmt"
	"strings"

	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

// CategoryKey names one bucket of records inside a dataset.
type CategoryKey string

// Category describes one selectable entry of a dataset's sidebar.
type Category struct {
	Key     CategoryKey `json:"key"`
	Label   string      `json:"label"`
	Gallery bool        `json:"gallery,omitempty"`
}

// DatasetName is the wire name of a dataset.
type DatasetName string

const (
	DatasetQuestions DatasetName = "questions"
	DatasetKnowledge DatasetName = "knowledge"
)

// GalleryCategory is reserved for the animation gallery. It never holds
// records.
const GalleryCategory CategoryKey = "animations"

// Dataset is a closed set of variants: PrimaryDataset and SecondaryDataset.
// Each variant carries its own category enumeration and default category.
type Dataset interface {
	Name() DatasetName
	Categories() []Category
	DefaultCategory() CategoryKey
	// SaveRoute is the persist endpoint path for the dataset.
	SaveRoute() string

	sealed()
}

// PrimaryDataset is the interview question bank.
type PrimaryDataset struct{}

// SecondaryDataset is the knowledge notes collection.
type SecondaryDataset struct{}

var primaryCategories = []Category{
	{Key: "base", Label: "基础 面试题"},
	{Key: "resume", Label: "简历 面试题"},
	{Key: "android", Label: "Android 面试题"},
	{Key: "kotlin", Label: "Kotlin 面试题"},
	{Key: "flutter", Label: "Flutter 面试题"},
	{Key: GalleryCategory, Label: "动画演示", Gallery: true},
}

var secondaryCategories = []Category{
	{Key: "flutter", Label: "Flutter 知识点"},
	{Key: "compose", Label: "Compose 知识点"},
	{Key: "go", Label: "Go 知识点"},
}

func (PrimaryDataset) Name() DatasetName            { return DatasetQuestions }
func (PrimaryDataset) DefaultCategory() CategoryKey { return "android" }
func (PrimaryDataset) SaveRoute() string            { return "/api/save-questions" }
func (PrimaryDataset) sealed()                      {}

func (PrimaryDataset) Categories() []Category {
	return append([]Category(nil), primaryCategories...)
}

func (SecondaryDataset) Name() DatasetName            { return DatasetKnowledge }
func (SecondaryDataset) DefaultCategory() CategoryKey { return "flutter" }
func (SecondaryDataset) SaveRoute() string            { return "/api/save-knowledge" }
func (SecondaryDataset) sealed()                      {}

func (SecondaryDataset) Categories() []Category {
	return append([]Category(nil), secondaryCategories...)
}

// Datasets returns every dataset in sidebar order.
func Datasets() []Dataset {
	return []Dataset{PrimaryDataset{}, SecondaryDataset{}}
}

// ParseDataset resolves a wire name to its dataset variant.
func ParseDataset(name string) (Dataset, error) {
	switch DatasetName(strings.ToLower(strings.TrimSpace(name))) {
	case DatasetQuestions:
		return PrimaryDataset{}, nil
	case DatasetKnowledge:
		return SecondaryDataset{}, nil
	default:
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("dataset %q", name))
	}
}

// Lookup finds a category of the dataset by key.
func Lookup(d Dataset, key CategoryKey) (Category, bool) {
	for _, c := range d.Categories() {
		if c.Key == key {
			return c, true
		}
	}
	return Category{}, false
}

// Has reports whether key is one of the dataset's categories.
func Has(d Dataset, key CategoryKey) bool {
	_, ok := Lookup(d, key)
	return ok
}

// IsGallery reports whether key routes to the animation gallery for d.
func IsGallery(d Dataset, key CategoryKey) bool {
	c, ok := Lookup(d, key)
	return ok && c.Gallery
}

// GalleryEntry is one display-only animation demo.
type GalleryEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Gallery lists the animation demos shown for the gallery category.
func Gallery() []GalleryEntry {
	return []GalleryEntry{
		{ID: "android-view-draw", Title: "Android View 绘制流程", Description: "演示 View 的 Measure -> Layout -> Draw 生命周期"},
		{ID: "flutter-architecture", Title: "Flutter 渲染机制 (3D)", Description: "演示 Widget -> Element -> RenderObject 三棵树关系"},
		{ID: "flutter-rendering-factory", Title: "Flutter 渲染流水线 (工厂模式)", Description: "用工厂流水线比喻 Flutter 的 Build -> Layout -> Paint 过程"},
		{ID: "flutter-stream", Title: "Flutter Stream 演示", Description: "演示 Stream 数据流向：Source -> Pipe -> Listener"},
	}
}
