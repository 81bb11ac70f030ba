package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve mapping for directory documents.
//
// Names and descriptions use English stemming; addresses and facility names
// use the simple analyzer so place names are not stemmed; the subdomain and
// custom domain are exact keywords.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	nameField := bleve.NewTextFieldMapping()
	nameField.Analyzer = en.AnalyzerName
	nameField.Store = true
	nameField.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("name", nameField)

	descField := bleve.NewTextFieldMapping()
	descField.Analyzer = en.AnalyzerName
	descField.Store = true
	descField.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("description", descField)

	addressField := bleve.NewTextFieldMapping()
	addressField.Analyzer = simple.Name
	addressField.Store = true
	docMapping.AddFieldMappingsAt("address", addressField)

	timingsField := bleve.NewTextFieldMapping()
	timingsField.Analyzer = simple.Name
	timingsField.Store = true
	docMapping.AddFieldMappingsAt("timings", timingsField)

	facilitiesField := bleve.NewTextFieldMapping()
	facilitiesField.Analyzer = simple.Name
	facilitiesField.Store = true
	docMapping.AddFieldMappingsAt("facilities", facilitiesField)

	keywordsField := bleve.NewTextFieldMapping()
	keywordsField.Analyzer = en.AnalyzerName
	docMapping.AddFieldMappingsAt("keywords", keywordsField)

	subdomainField := bleve.NewTextFieldMapping()
	subdomainField.Analyzer = keyword.Name
	subdomainField.Store = true
	docMapping.AddFieldMappingsAt("subdomain", subdomainField)

	customDomainField := bleve.NewTextFieldMapping()
	customDomainField.Analyzer = keyword.Name
	customDomainField.Store = true
	docMapping.AddFieldMappingsAt("custom_domain", customDomainField)

	updatedAtField := bleve.NewNumericFieldMapping()
	updatedAtField.Store = true
	docMapping.AddFieldMappingsAt("updated_at", updatedAtField)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
