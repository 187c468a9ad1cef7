package misc

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"strings"

	log "github.com/sirupsen/logrus"
)

type Tip struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// TipsManager holds the training tips shown next to the plan.
type TipsManager struct {
	Tips           []*Tip
	CategoriesTips map[string][]*Tip
}

func NewTipsManager(tipsCsvReader *csv.Reader) (*TipsManager, error) {
	tm := &TipsManager{
		CategoriesTips: make(map[string][]*Tip),
	}

	log.Println("reading tips CSV ...")

	tipsCsvReader.Comma = ';'
	for {
		record, err := tipsCsvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		// TIP;CATEGORY
		if len(record) != 2 {
			return nil, fmt.Errorf("record [%s] does not have 2 elements", record)
		}

		tip := &Tip{
			Text:     record[0],
			Category: strings.ToLower(record[1]),
		}
		tm.Tips = append(tm.Tips, tip)
		tm.CategoriesTips[tip.Category] = append(tm.CategoriesTips[tip.Category], tip)
	}

	if len(tm.Tips) == 0 {
		return nil, fmt.Errorf("no tips found")
	}

	log.Printf("tips CSV read %d tips", len(tm.Tips))

	return tm, nil
}

func (tm *TipsManager) RandomTip() *Tip {
	return tm.Tips[rand.Intn(len(tm.Tips))]
}

// RandomTipIn returns nil when the category has no tips.
func (tm *TipsManager) RandomTipIn(category string) *Tip {
	tips := tm.CategoriesTips[strings.ToLower(category)]
	if len(tips) == 0 {
		return nil
	}
	return tips[rand.Intn(len(tips))]
}
