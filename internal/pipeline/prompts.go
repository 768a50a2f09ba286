package pipeline

import (
	"fmt"
	"strings"
)

// Prompt wording is fixed. The drafts target Korean portal blogs (Naver, Tistory).

// DraftPrompt builds the generation prompt for keyword.
func DraftPrompt(keyword string) string {
	var b strings.Builder
	b.WriteString("다음 키워드로 네이버 SEO 블로그 글을 작성해 주세요.\n\n")
	fmt.Fprintf(&b, "키워드: %s\n\n", keyword)
	b.WriteString("조건:\n")
	b.WriteString("- 첫 줄에 제목 포함\n")
	b.WriteString("- 서론/본론/결론 구조\n")
	b.WriteString("- 최소 1500자 이상\n")
	b.WriteString("- 사람처럼 자연스럽게 작성\n")
	b.WriteString("- 과장 금지\n")
	b.WriteString("- 목록(리스트) 요소 포함\n")
	b.WriteString("- 마지막 줄에 해시태그 5~10개 (#으로 시작)\n")
	return b.String()
}

// ScorePrompt builds the evaluation prompt for a drafted post.
func ScorePrompt(content string) string {
	var b strings.Builder
	b.WriteString("다음 블로그 글을 SEO 관점에서 평가해 주세요.\n\n")
	b.WriteString("평가 기준:\n")
	b.WriteString("- 제목 클릭 유도력\n")
	b.WriteString("- 검색 의도 적합성\n")
	b.WriteString("- 가독성\n")
	b.WriteString("- 자연스러움\n")
	b.WriteString("- 중복/패턴 위험\n\n")
	b.WriteString("100점 만점 기준 총점 숫자만 출력하세요.\n\n")
	b.WriteString("글:\n")
	b.WriteString(content)
	return b.String()
}
