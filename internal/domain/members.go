package domain

// Members is the fixed member catalog shared by all three programs.
var Members = []Member{
	{
		ID:             "umuti",
		Name:           "우무티",
		EnglishName:    "UMUTI",
		ReferenceImage: "WUMUTI.png",
		AccentColor:    "#C9A962",
		Description:    "따뜻한 빛의 존재",
	},
	{
		ID:             "rui",
		Name:           "루이",
		EnglishName:    "RUI",
		ReferenceImage: "RUI.png",
		AccentColor:    "#7B9ED9",
		Description:    "차가운 달빛의 존재",
	},
	{
		ID:             "hyun",
		Name:           "현",
		EnglishName:    "HYUN",
		ReferenceImage: "HYUN.png",
		AccentColor:    "#D4A5A5",
		Description:    "부드러운 새벽의 존재",
	},
	{
		ID:             "haru",
		Name:           "하루",
		EnglishName:    "HARU",
		ReferenceImage: "HARU.png",
		AccentColor:    "#A8D5BA",
		Description:    "생명의 봄날 같은 존재",
	},
}

// MemberByID looks up a member in the catalog.
func MemberByID(id string) (Member, bool) {
	for _, member := range Members {
		if member.ID == id {
			return member, true
		}
	}
	return Member{}, false
}
