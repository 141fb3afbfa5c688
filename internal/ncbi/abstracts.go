// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ncbi

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/scholar-profile/pkg/types"
)

// EFetch pubmed XML structures.
type pubmedArticleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Citation   medlineCitation `xml:"MedlineCitation"`
	PubmedData pubmedData      `xml:"PubmedData"`
}

type medlineCitation struct {
	PMID    string     `xml:"PMID"`
	Article xmlArticle `xml:"Article"`
}

type xmlArticle struct {
	Journal      xmlJournal    `xml:"Journal"`
	ArticleTitle string        `xml:"ArticleTitle"`
	Abstract     xmlAbstract   `xml:"Abstract"`
	AuthorList   xmlAuthorList `xml:"AuthorList"`
}

type xmlJournal struct {
	Title        string          `xml:"Title"`
	JournalIssue xmlJournalIssue `xml:"JournalIssue"`
}

type xmlJournalIssue struct {
	PubDate xmlPubDate `xml:"PubDate"`
}

type xmlPubDate struct {
	Year        string `xml:"Year"`
	MedlineDate string `xml:"MedlineDate"`
}

type xmlAbstract struct {
	Sections []xmlAbstractText `xml:"AbstractText"`
}

type xmlAbstractText struct {
	Label string `xml:"Label,attr"`
	Text  string `xml:",chardata"`
}

type xmlAuthorList struct {
	Authors []xmlAuthor `xml:"Author"`
}

type xmlAuthor struct {
	LastName       string `xml:"LastName"`
	ForeName       string `xml:"ForeName"`
	CollectiveName string `xml:"CollectiveName"`
}

type pubmedData struct {
	ArticleIDs []xmlArticleID `xml:"ArticleIdList>ArticleId"`
}

type xmlArticleID struct {
	IDType string `xml:"IdType,attr"`
	Value  string `xml:",chardata"`
}

// FetchAbstracts retrieves abstract records for the given PMIDs in
// batches. Records come back in response order; callers match them to
// their own lists by PMID. Empty input short-circuits with no call.
func (c *Client) FetchAbstracts(ctx context.Context, pmids []string) ([]types.AbstractRecord, error) {
	if len(pmids) == 0 {
		return nil, nil
	}

	var records []types.AbstractRecord
	for _, batch := range chunk(pmids, abstractBatchSize) {
		params := url.Values{
			"db":      {"pubmed"},
			"id":      {strings.Join(batch, ",")},
			"retmode": {"xml"},
		}

		body, err := c.get(ctx, efetchBase, params)
		if err != nil {
			return nil, fmt.Errorf("fetching abstracts: %w", err)
		}

		var set pubmedArticleSet
		if err := xml.Unmarshal(body, &set); err != nil {
			return nil, fmt.Errorf("parsing abstract response: %w", err)
		}

		for _, pa := range set.Articles {
			records = append(records, convertAbstract(pa))
		}
	}
	return records, nil
}

func convertAbstract(pa pubmedArticle) types.AbstractRecord {
	xa := pa.Citation.Article

	rec := types.AbstractRecord{
		PMID:    strings.TrimSpace(pa.Citation.PMID),
		Title:   strings.TrimSpace(xa.ArticleTitle),
		Journal: strings.TrimSpace(xa.Journal.Title),
	}

	rec.Year = parseYear(xa.Journal.JournalIssue.PubDate)

	// Labeled abstract sections are joined into one text block.
	var parts []string
	for _, s := range xa.Abstract.Sections {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		if s.Label != "" {
			parts = append(parts, s.Label+": "+text)
		} else {
			parts = append(parts, text)
		}
	}
	rec.Abstract = strings.Join(parts, "\n\n")

	for _, au := range xa.AuthorList.Authors {
		if au.CollectiveName != "" {
			rec.Authors = append(rec.Authors, strings.TrimSpace(au.CollectiveName))
			continue
		}
		name := strings.TrimSpace(au.ForeName + " " + au.LastName)
		if name != "" {
			rec.Authors = append(rec.Authors, name)
		}
	}

	for _, aid := range pa.PubmedData.ArticleIDs {
		value := strings.TrimSpace(aid.Value)
		switch aid.IDType {
		case "doi":
			rec.DOI = value
		case "pmc":
			rec.PMCID = value
		}
	}

	return rec
}

// parseYear reads the publication year, falling back to the leading year
// of a MedlineDate range like "2019 Nov-Dec".
func parseYear(pd xmlPubDate) int {
	if y, err := strconv.Atoi(strings.TrimSpace(pd.Year)); err == nil {
		return y
	}
	fields := strings.Fields(pd.MedlineDate)
	if len(fields) > 0 {
		if y, err := strconv.Atoi(fields[0]); err == nil {
			return y
		}
	}
	return 0
}
